package model

// ResourceType identifies the kind of resource a policy binding is attached to.
type ResourceType string

const (
	TypeProject      ResourceType = "Project"
	TypeFolder       ResourceType = "Folder"
	TypeOrganization ResourceType = "Organization"
)

// ResourceRef identifies a single resource in the hierarchy.
type ResourceRef struct {
	Type ResourceType
	ID   string
}

// InScope reports whether bindings on this resource belong in the report.
// Only project and folder bindings are reported.
func (r ResourceRef) InScope() bool {
	return (r.Type == TypeProject || r.Type == TypeFolder) && r.ID != ""
}

// Binding pairs a role with the principals granted it on a resource.
type Binding struct {
	Role    string
	Members []string
}

// RawPolicyRecord is one record of the policy search export: a resource and
// the bindings attached to it.
type RawPolicyRecord struct {
	Resource ResourceRef
	Bindings []Binding
}

// ResolvedResource is the enrichment of a resource reference: its display
// name, its immediate parent's display name, and the ID of the organization
// at the root of its ancestor chain. Fields that could not be resolved hold
// sentinel values; Degraded records that at least one lookup failed.
type ResolvedResource struct {
	Ref            ResourceRef
	Name           string
	ParentName     string
	OrganizationID string
	Degraded       bool
}

// ReportRow is one line of the final report, a single (resource, role,
// member) grant.
type ReportRow struct {
	OrganizationID string
	ResourceType   string
	ResourceID     string
	ResourceName   string
	Parent         string
	Role           string
	Member         string
}

// ReportHeader returns the report's column names, in output order.
func ReportHeader() []string {
	return []string{"OrganizationID", "ResourceType", "ResourceID", "ResourceName", "Parent", "Role", "Member"}
}

// Fields returns the row's values in header order.
func (r ReportRow) Fields() []string {
	return []string{r.OrganizationID, r.ResourceType, r.ResourceID, r.ResourceName, r.Parent, r.Role, r.Member}
}
