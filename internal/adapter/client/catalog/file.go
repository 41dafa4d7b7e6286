package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MikeRez0/tgshop/internal/core/domain"
	"gopkg.in/yaml.v3"
)

// File reads the product list on every call, so edits apply without a restart.
// The format follows the extension: .yaml/.yml or JSON otherwise.
type File struct {
	path string
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Products(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", f.path, err)
	}

	var products []domain.Product
	switch strings.ToLower(filepath.Ext(f.path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &products)
	default:
		err = json.Unmarshal(data, &products)
	}
	if err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", f.path, err)
	}

	for i, p := range products {
		if p.ID == "" || p.Price < 0 || p.Price > domain.MaxProductPrice {
			return nil, fmt.Errorf("catalog %s: invalid product at %d", f.path, i)
		}
	}

	return products, nil
}
