package gcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	resourcemanager "cloud.google.com/go/resourcemanager/apiv3"
	"cloud.google.com/go/resourcemanager/apiv3/resourcemanagerpb"
	"github.com/rich-armb/IAM-Reporting-Script/pkg/model"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrNotResolved reports a lookup that could not be completed, either
// because the resource does not exist or because access to it was denied.
// The report treats both the same way: degraded, not fatal.
var ErrNotResolved = errors.New("resource not resolved")

// Resource is a directory lookup result: the resource's display name and a
// reference to its parent in the hierarchy. Parent is the zero value when
// the resource has no parent.
type Resource struct {
	DisplayName string
	Parent      model.ResourceRef
}

// Directory resolves a resource reference to its display name and parent.
type Directory interface {
	Lookup(ctx context.Context, ref model.ResourceRef) (Resource, error)
}

// ResourceManagerDirectory implements Directory against the Cloud Resource
// Manager v3 API.
type ResourceManagerDirectory struct {
	projects *resourcemanager.ProjectsClient
	folders  *resourcemanager.FoldersClient
}

func NewResourceManagerDirectory(ctx context.Context, opts ...option.ClientOption) (*ResourceManagerDirectory, error) {
	projects, err := resourcemanager.NewProjectsClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("resourcemanager.NewProjectsClient: %w", err)
	}
	folders, err := resourcemanager.NewFoldersClient(ctx, opts...)
	if err != nil {
		projects.Close()
		return nil, fmt.Errorf("resourcemanager.NewFoldersClient: %w", err)
	}
	return &ResourceManagerDirectory{projects: projects, folders: folders}, nil
}

func (d *ResourceManagerDirectory) Close() error {
	perr := d.projects.Close()
	ferr := d.folders.Close()
	if perr != nil {
		return perr
	}
	return ferr
}

func (d *ResourceManagerDirectory) Lookup(ctx context.Context, ref model.ResourceRef) (Resource, error) {
	switch ref.Type {
	case model.TypeProject:
		project, err := d.projects.GetProject(ctx, &resourcemanagerpb.GetProjectRequest{
			Name: "projects/" + ref.ID,
		})
		if err != nil {
			return Resource{}, classifyLookupError(ref, err)
		}
		return Resource{DisplayName: project.DisplayName, Parent: ParseParent(project.Parent)}, nil
	case model.TypeFolder:
		folder, err := d.folders.GetFolder(ctx, &resourcemanagerpb.GetFolderRequest{
			Name: "folders/" + ref.ID,
		})
		if err != nil {
			return Resource{}, classifyLookupError(ref, err)
		}
		return Resource{DisplayName: folder.DisplayName, Parent: ParseParent(folder.Parent)}, nil
	default:
		return Resource{}, fmt.Errorf("lookup %s/%s: unsupported resource type", ref.Type, ref.ID)
	}
}

// classifyLookupError folds NotFound and PermissionDenied into the single
// degraded-resolution signal. Everything else, including cancellation, is
// passed through wrapped.
func classifyLookupError(ref model.ResourceRef, err error) error {
	switch status.Code(err) {
	case codes.NotFound, codes.PermissionDenied:
		return fmt.Errorf("lookup %s/%s: %w", ref.Type, ref.ID, ErrNotResolved)
	}
	return fmt.Errorf("lookup %s/%s: %w", ref.Type, ref.ID, err)
}

// ParseParent converts a resource manager parent string such as
// "folders/123" or "organizations/456" into a reference. Anything else
// yields the zero reference.
func ParseParent(parent string) model.ResourceRef {
	switch {
	case strings.HasPrefix(parent, "folders/"):
		return model.ResourceRef{Type: model.TypeFolder, ID: strings.TrimPrefix(parent, "folders/")}
	case strings.HasPrefix(parent, "organizations/"):
		return model.ResourceRef{Type: model.TypeOrganization, ID: strings.TrimPrefix(parent, "organizations/")}
	}
	return model.ResourceRef{}
}
