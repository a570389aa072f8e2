package gcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	asset "cloud.google.com/go/asset/apiv1"
	"cloud.google.com/go/asset/apiv1/assetpb"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// DumpPolicySearch runs SearchAllIamPolicies over the scope and writes the
// results to outPath as a raw policy export document, in the same shape
// `gcloud asset search-all-iam-policies --format=json` produces. Returns
// the number of records written.
func DumpPolicySearch(ctx context.Context, scope, outPath string, opts ...option.ClientOption) (int, error) {
	client, err := asset.NewClient(ctx, opts...)
	if err != nil {
		return 0, fmt.Errorf("asset.NewClient: %w", err)
	}
	defer client.Close()

	req := &assetpb.SearchAllIamPoliciesRequest{
		Scope: scope, // e.g., "organizations/123456789"
		AssetTypes: []string{
			"cloudresourcemanager.googleapis.com/Project",
			"cloudresourcemanager.googleapis.com/Folder",
		},
	}

	var records []exportRecord
	it := client.SearchAllIamPolicies(ctx, req)
	for {
		result, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("searching IAM policies: %w", err)
		}

		record := exportRecord{Resource: result.Resource}
		if result.Policy != nil {
			for _, binding := range result.Policy.Bindings {
				record.Policy.Bindings = append(record.Policy.Bindings, exportBinding{
					Role:    binding.Role,
					Members: binding.Members,
				})
			}
		}
		records = append(records, record)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", outPath, err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		f.Close()
		return 0, fmt.Errorf("writing %s: %w", outPath, err)
	}
	if err := f.Close(); err != nil {
		return 0, err
	}
	return len(records), nil
}
