package gcp

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/rich-armb/IAM-Reporting-Script/pkg/model"
)

// Wire shape of the raw policy export document. It matches the output of
// `gcloud asset search-all-iam-policies --format=json`, which is also what
// the fetch subcommand writes.
type exportRecord struct {
	Resource string       `json:"resource"`
	Policy   exportPolicy `json:"policy"`
}

type exportPolicy struct {
	Bindings []exportBinding `json:"bindings"`
}

type exportBinding struct {
	Role    string   `json:"role"`
	Members []string `json:"members"`
}

var (
	projectResourcePattern = regexp.MustCompile(`^//cloudresourcemanager\.googleapis\.com/projects/[^/]+$`)
	folderResourcePattern  = regexp.MustCompile(`^//cloudresourcemanager\.googleapis\.com/folders/[^/]+$`)
)

// ClassifyResource maps a full resource URL from the asset search output to
// a resource reference. URLs outside the project/folder hierarchy yield a
// reference with an empty type, which the assembler skips.
func ClassifyResource(resource string) model.ResourceRef {
	id := resource[strings.LastIndex(resource, "/")+1:]
	switch {
	case projectResourcePattern.MatchString(resource):
		return model.ResourceRef{Type: model.TypeProject, ID: id}
	case folderResourcePattern.MatchString(resource):
		return model.ResourceRef{Type: model.TypeFolder, ID: id}
	}
	return model.ResourceRef{ID: id}
}

// ParseExport decodes a raw policy export document into records. Binding
// and member order is preserved as listed in the document.
func ParseExport(r io.Reader) ([]model.RawPolicyRecord, error) {
	var doc []exportRecord
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding policy export: %w", err)
	}
	records := make([]model.RawPolicyRecord, 0, len(doc))
	for _, rec := range doc {
		record := model.RawPolicyRecord{Resource: ClassifyResource(rec.Resource)}
		for _, b := range rec.Policy.Bindings {
			record.Bindings = append(record.Bindings, model.Binding{Role: b.Role, Members: b.Members})
		}
		records = append(records, record)
	}
	return records, nil
}

// LoadExport reads and parses the policy export document at path.
func LoadExport(path string) ([]model.RawPolicyRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening policy export: %w", err)
	}
	defer f.Close()
	return ParseExport(f)
}
