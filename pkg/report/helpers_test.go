package report

import (
	"context"
	"fmt"
	"sync"

	"github.com/rich-armb/IAM-Reporting-Script/pkg/gcp"
	"github.com/rich-armb/IAM-Reporting-Script/pkg/model"
)

// fakeDirectory is an in-memory Directory that counts lookups per key.
type fakeDirectory struct {
	mu      sync.Mutex
	calls   map[model.ResourceRef]int
	entries map[model.ResourceRef]gcp.Resource
	errs    map[model.ResourceRef]error
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		calls:   make(map[model.ResourceRef]int),
		entries: make(map[model.ResourceRef]gcp.Resource),
		errs:    make(map[model.ResourceRef]error),
	}
}

func (f *fakeDirectory) add(ref model.ResourceRef, name string, parent model.ResourceRef) {
	f.entries[ref] = gcp.Resource{DisplayName: name, Parent: parent}
}

func (f *fakeDirectory) fail(ref model.ResourceRef, err error) {
	f.errs[ref] = err
}

func (f *fakeDirectory) callCount(ref model.ResourceRef) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[ref]
}

func (f *fakeDirectory) Lookup(_ context.Context, ref model.ResourceRef) (gcp.Resource, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[ref]++
	if err, ok := f.errs[ref]; ok {
		return gcp.Resource{}, err
	}
	if res, ok := f.entries[ref]; ok {
		return res, nil
	}
	return gcp.Resource{}, fmt.Errorf("lookup %s/%s: %w", ref.Type, ref.ID, gcp.ErrNotResolved)
}

func proj(id string) model.ResourceRef {
	return model.ResourceRef{Type: model.TypeProject, ID: id}
}

func folder(id string) model.ResourceRef {
	return model.ResourceRef{Type: model.TypeFolder, ID: id}
}

func org(id string) model.ResourceRef {
	return model.ResourceRef{Type: model.TypeOrganization, ID: id}
}
