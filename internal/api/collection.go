package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"bizdash/internal/model"
)

// Collection binds a REST resource (GET/POST /name, PUT|PATCH|DELETE /name/:id) to
// its record type T and draft type D.
type Collection[T any, D any] struct {
	client *Client
	name   string

	// UpdateMethod is PUT unless set to PATCH.
	UpdateMethod string
	// ImportField is the multipart field name for CSV uploads; defaults to the resource name.
	ImportField string
	// Query, when set, supplies list query parameters (e.g. a date range) on each fetch.
	Query func() url.Values
}

// NewCollection creates a collection for the resource at /name.
func NewCollection[T any, D any](client *Client, name string) *Collection[T, D] {
	name = strings.Trim(name, "/")
	return &Collection[T, D]{
		client:       client,
		name:         name,
		UpdateMethod: http.MethodPut,
		ImportField:  name,
	}
}

// Name returns the resource name.
func (c *Collection[T, D]) Name() string { return c.name }

func (c *Collection[T, D]) path() string { return "/" + c.name }

func (c *Collection[T, D]) itemPath(id string) string {
	return c.path() + "/" + url.PathEscape(id)
}

// List fetches the full collection.
func (c *Collection[T, D]) List(ctx context.Context) ([]T, error) {
	var query url.Values
	if c.Query != nil {
		query = c.Query()
	}
	var items []T
	if err := c.client.Get(ctx, c.path(), query, &items); err != nil {
		return nil, fmt.Errorf("list %s: %w", c.name, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Create posts draft and returns the created record.
func (c *Collection[T, D]) Create(ctx context.Context, draft D) (T, error) {
	var created T
	if err := c.client.Post(ctx, c.path(), draft, &created); err != nil {
		return created, fmt.Errorf("create %s: %w", c.name, err)
	}
	return created, nil
}

// Update replaces the record with id and returns the updated record.
func (c *Collection[T, D]) Update(ctx context.Context, id string, draft D) (T, error) {
	var updated T
	method := c.UpdateMethod
	if method != http.MethodPatch {
		method = http.MethodPut
	}
	if err := c.client.Do(ctx, method, c.itemPath(id), draft, &updated); err != nil {
		return updated, fmt.Errorf("update %s %s: %w", c.name, id, err)
	}
	return updated, nil
}

// Delete removes the record with id.
func (c *Collection[T, D]) Delete(ctx context.Context, id string) error {
	if err := c.client.Delete(ctx, c.itemPath(id), nil); err != nil {
		return fmt.Errorf("delete %s %s: %w", c.name, id, err)
	}
	return nil
}

// Import uploads a CSV file to /name/import.
func (c *Collection[T, D]) Import(ctx context.Context, filename string, file io.Reader) (model.ImportResult, error) {
	var result model.ImportResult
	if err := c.client.Upload(ctx, c.path()+"/import", c.ImportField, filename, file, &result); err != nil {
		return model.ImportResult{}, fmt.Errorf("import %s: %w", c.name, err)
	}
	return result, nil
}
