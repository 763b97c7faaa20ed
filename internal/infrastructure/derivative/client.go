package derivative

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/greenchainz/carbon-analysis/internal/core/domain"
	"github.com/greenchainz/carbon-analysis/internal/infrastructure/resilience"
)

const DefaultBaseURL = "https://developer.api.autodesk.com/modelderivative/v2"

// Client reads translated model manifests and property trees from the
// model-derivative service. Every URN and viewable GUID is validated before
// it is interpolated into a request path.
type Client struct {
	baseURL    string
	httpClient *http.Client
	exec       *resilience.Executor
}

func New(baseURL string, timeout time.Duration, exec *resilience.Executor) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if exec == nil {
		exec = resilience.NewExecutor(resilience.DefaultConfig())
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		exec:       exec,
	}
}

// ExtractMaterials resolves a model URN to its accumulated material rows:
// manifest, first 3D viewable, then the viewable's property tree.
func (c *Client) ExtractMaterials(ctx context.Context, accessToken, modelURN string) ([]domain.ExtractedMaterial, error) {
	if err := domain.ValidateModelURN(modelURN); err != nil {
		return nil, err
	}

	manifest, err := c.fetchManifest(ctx, accessToken, modelURN)
	if err != nil {
		return nil, wrapTemporaryIfNeeded("fetch manifest",
			domain.WrapError(domain.ErrManifestUnavailable, "fetch manifest", err))
	}

	guid, err := findViewableGUID(manifest)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateViewableGUID(guid); err != nil {
		return nil, err
	}

	props, err := c.fetchProperties(ctx, accessToken, modelURN, guid)
	if err != nil {
		return nil, wrapTemporaryIfNeeded("fetch properties",
			domain.WrapError(domain.ErrPropertiesUnavailable, "fetch properties", err))
	}

	return collectMaterials(props), nil
}

func (c *Client) fetchManifest(ctx context.Context, accessToken, modelURN string) (*manifestResponse, error) {
	var manifest manifestResponse
	endpoint := c.designDataURL(modelURN, "manifest")
	err := c.exec.Execute(ctx, "derivative_manifest", func(ctx context.Context) error {
		return c.getJSON(ctx, accessToken, endpoint, &manifest, "manifest")
	}, classifyDerivativeError)
	if err != nil {
		return nil, err
	}
	return &manifest, nil
}

func (c *Client) fetchProperties(ctx context.Context, accessToken, modelURN, guid string) (*propertiesResponse, error) {
	var props propertiesResponse
	endpoint := c.designDataURL(modelURN, "metadata", guid, "properties")
	err := c.exec.Execute(ctx, "derivative_properties", func(ctx context.Context) error {
		return c.getJSON(ctx, accessToken, endpoint, &props, "properties")
	}, classifyDerivativeError)
	if err != nil {
		return nil, err
	}
	return &props, nil
}

// designDataURL builds /designdata/{urn}/... with every segment path-escaped.
// Inputs are validated before this point; escaping is the second line.
func (c *Client) designDataURL(modelURN string, segments ...string) string {
	parts := []string{c.baseURL, "designdata", url.PathEscape(modelURN)}
	for _, s := range segments {
		parts = append(parts, url.PathEscape(s))
	}
	return strings.Join(parts, "/")
}

func findViewableGUID(manifest *manifestResponse) (string, error) {
	for _, derivative := range manifest.Derivatives {
		outputType := strings.ToLower(derivative.OutputType)
		if outputType != "svf" && outputType != "svf2" {
			continue
		}
		for _, child := range derivative.Children {
			if strings.EqualFold(child.Role, "3d") && child.GUID != "" {
				return child.GUID, nil
			}
		}
	}
	return "", domain.WrapError(domain.ErrNoViewableFound, "inspect manifest",
		fmt.Errorf("%d derivatives, none with a 3d viewable", len(manifest.Derivatives)))
}
