package contracts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"listing-web/schemas"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const resourcePrefix = "mem://schemas/"

var (
	registryOnce sync.Once
	registry     map[string]*jsonschema.Schema
	registryErr  error
)

// loadRegistry компилирует все схемы из schemas.SchemasFS один раз за процесс.
func loadRegistry() (map[string]*jsonschema.Schema, error) {
	registryOnce.Do(func() {
		registry, registryErr = compileAll(schemas.SchemasFS)
	})
	return registry, registryErr
}

func compileAll(fsys fs.FS) (map[string]*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	var paths []string
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		raw, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		// Сначала регистрируем все ресурсы, чтобы работали $ref между схемами.
		if err := compiler.AddResource(resourcePrefix+path, bytes.NewReader(raw)); err != nil {
			return fmt.Errorf("add schema resource %s: %w", path, err)
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk schemas: %w", err)
	}

	compiled := make(map[string]*jsonschema.Schema, len(paths))
	for _, path := range paths {
		key := keyFromPath(path)
		if key == "" {
			return nil, fmt.Errorf("schema path %s does not match <kind>/<name>/v<N>.json", path)
		}
		schema, err := compiler.Compile(resourcePrefix + path)
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", path, err)
		}
		compiled[key] = schema
	}
	return compiled, nil
}

// keyFromPath: "events/password-reset-requested/v1.json" -> "PasswordResetRequestedEvent/1.0.0",
// "documents/listing/v1.json" -> "ListingDocument/1.0.0".
func keyFromPath(path string) string {
	parts := strings.Split(strings.TrimSuffix(path, ".json"), "/")
	if len(parts) != 3 || !strings.HasPrefix(parts[2], "v") {
		return ""
	}

	var suffix string
	switch parts[0] {
	case "events":
		suffix = "Event"
	case "documents":
		suffix = "Document"
	default:
		return ""
	}

	caser := cases.Title(language.English)
	var name strings.Builder
	for _, p := range strings.Split(parts[1], "-") {
		name.WriteString(caser.String(p))
	}
	name.WriteString(suffix)

	return fmt.Sprintf("%s/%s.0.0", name.String(), strings.TrimPrefix(parts[2], "v"))
}

// Validate проверяет JSON по схеме с ключом "<Name>/<version>".
func Validate(name, version string, body []byte) error {
	compiled, err := loadRegistry()
	if err != nil {
		return err
	}

	key := name + "/" + version
	schema, ok := compiled[key]
	if !ok {
		return fmt.Errorf("schema %s not found", key)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("body is not valid JSON: %w", err)
	}

	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}
	return nil
}
