package report

import (
	"github.com/rich-armb/IAM-Reporting-Script/pkg/model"
)

// Expand flattens bindings against a resolved resource into report rows,
// one row per (role, member) pair. Binding and member order is preserved,
// and duplicate grants in the input produce duplicate rows: the report
// mirrors the source with full fidelity. Empty binding or member lists
// contribute nothing.
func Expand(res model.ResolvedResource, bindings []model.Binding) []model.ReportRow {
	var rows []model.ReportRow
	for _, binding := range bindings {
		for _, member := range binding.Members {
			rows = append(rows, model.ReportRow{
				OrganizationID: res.OrganizationID,
				ResourceType:   string(res.Ref.Type),
				ResourceID:     res.Ref.ID,
				ResourceName:   res.Name,
				Parent:         res.ParentName,
				Role:           binding.Role,
				Member:         member,
			})
		}
	}
	return rows
}
