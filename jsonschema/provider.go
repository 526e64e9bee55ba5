package jsonschema

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Provider resolves a schema URI to its raw bytes. It is the module's
// concrete implementation of the document-loading capability the
// Compiler's Loaders map exposes as a URI-scheme-keyed function table.
type Provider interface {
	Fetch(uri string) ([]byte, error)
}

// FileProvider resolves URIs against a directory tree: a schema's URI
// is the result of joining its path, relative to Root, onto BaseURI.
// Register it with a Compiler via RegisterProvider("file", provider)
// (or any scheme the caller's URIs use for local documents).
type FileProvider struct {
	Root    string
	BaseURI string
}

// NewFileProvider returns a FileProvider rooted at dir, serving schemas
// addressed relative to baseURI.
func NewFileProvider(dir, baseURI string) *FileProvider {
	return &FileProvider{Root: dir, BaseURI: strings.TrimSuffix(baseURI, "/")}
}

func (p *FileProvider) Fetch(uri string) ([]byte, error) {
	rel := strings.TrimPrefix(uri, p.BaseURI)
	rel = strings.TrimPrefix(rel, "/")
	return os.ReadFile(filepath.Join(p.Root, filepath.FromSlash(rel)))
}

// HTTPProvider fetches schema documents over http/https with a bounded
// timeout, used only for those two URL schemes.
type HTTPProvider struct {
	Client *http.Client
}

// NewHTTPProvider returns an HTTPProvider with the given request timeout.
func NewHTTPProvider(timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{Client: &http.Client{Timeout: timeout}}
}

func (p *HTTPProvider) Fetch(uri string) ([]byte, error) {
	resp, err := p.Client.Get(uri)
	if err != nil {
		return nil, ErrNetworkFetch
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, ErrInvalidStatusCode
	}
	return io.ReadAll(resp.Body)
}

// RegisterProvider wires a Provider into the Compiler's scheme-keyed
// Loaders table, adapting Fetch's []byte result to the io.ReadCloser
// loaders expect.
func (c *Compiler) RegisterProvider(scheme string, p Provider) *Compiler {
	return c.RegisterLoader(scheme, func(uri string) (io.ReadCloser, error) {
		data, err := p.Fetch(uri)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(strings.NewReader(string(data))), nil
	})
}
