package report

import (
	"context"

	"github.com/rich-armb/IAM-Reporting-Script/pkg/model"
)

// Sentinel values for report fields that could not be resolved. These are
// what the report's consumers filter on in spreadsheets, so they are part
// of the output contract.
const (
	UnknownOrg     = "UNKNOWN"
	ParentIsOrg    = "<Organization>"
	ParentNotFound = "<not found>"
)

const defaultMaxDepth = 25

// Resolver produces best-effort enrichment for a resource reference: its
// display name, its immediate parent's display name, and the ID of the
// organization at the root of its ancestor chain. Only the immediate parent
// needs a name; deeper ancestors are walked solely to find the organization.
type Resolver struct {
	cache    *Cache
	maxDepth int
}

func NewResolver(cache *Cache, maxDepth int) *Resolver {
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}
	return &Resolver{cache: cache, maxDepth: maxDepth}
}

// Resolve never fails: any lookup that cannot be completed degrades the
// affected fields to their sentinels instead.
func (r *Resolver) Resolve(ctx context.Context, ref model.ResourceRef) model.ResolvedResource {
	resolved := model.ResolvedResource{
		Ref:            ref,
		Name:           ref.ID,
		ParentName:     ParentNotFound,
		OrganizationID: UnknownOrg,
	}

	self, err := r.cache.Lookup(ctx, ref)
	if err != nil {
		resolved.Degraded = true
		return resolved
	}
	if self.DisplayName != "" {
		resolved.Name = self.DisplayName
	}

	parent := self.Parent
	if parent == (model.ResourceRef{}) {
		resolved.ParentName = ""
		return resolved
	}
	if parent.Type == model.TypeOrganization {
		resolved.ParentName = ParentIsOrg
		resolved.OrganizationID = parent.ID
		return resolved
	}

	parentRes, err := r.cache.Lookup(ctx, parent)
	if err != nil {
		resolved.Degraded = true
		return resolved
	}
	resolved.ParentName = parentRes.DisplayName
	if resolved.ParentName == "" {
		resolved.ParentName = parent.ID
	}

	// Walk the remaining ancestor chain only to find the owning
	// organization. The walk is an explicit bounded loop so malformed or
	// cyclic parent data cannot recurse forever.
	cur := parentRes
	for depth := 0; depth < r.maxDepth; depth++ {
		next := cur.Parent
		if next == (model.ResourceRef{}) {
			return resolved // chain ends without reaching an organization
		}
		if next.Type == model.TypeOrganization {
			resolved.OrganizationID = next.ID
			return resolved
		}
		res, err := r.cache.Lookup(ctx, next)
		if err != nil {
			resolved.Degraded = true
			return resolved
		}
		cur = res
	}

	// Depth exceeded: treat like any other failed lookup.
	resolved.Degraded = true
	return resolved
}
