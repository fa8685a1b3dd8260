package schema

import (
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"golang.org/x/tools/go/packages"
)

const (
	storageTag  = "ecs"
	templateTag = "template"
)

// Options controls how a schema is located and which names the generated declarations get.
type Options struct {
	// Dir is the directory of the package declaring the schema.
	Dir string
	// TypeName is the name of the schema struct.
	TypeName string
	// World, Kind and Template name the generated aggregate, component kind and template types.
	World    string
	Kind     string
	Template string
	// Output is the base name of the generated file. Its previous contents are
	// ignored while loading so a stale file cannot break the schema.
	Output string
	// BuildTags are passed to the loader as -tags.
	BuildTags []string
	Logger    zerolog.Logger
}

// Load type-checks the package in opts.Dir and extracts the schema named opts.TypeName.
func Load(opts Options) (*World, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedTypes | packages.NeedSyntax | packages.NeedTypesInfo,
		Dir:  opts.Dir,
		Logf: func(format string, args ...any) {
			opts.Logger.Trace().Msgf(format, args...)
		},
		ParseFile: func(fset *token.FileSet, filename string, src []byte) (*ast.File, error) {
			if opts.Output != "" && filepath.Base(filename) == opts.Output {
				return parser.ParseFile(fset, filename, src, parser.PackageClauseOnly)
			}
			return parser.ParseFile(fset, filename, src, parser.AllErrors|parser.ParseComments)
		},
	}
	if len(opts.BuildTags) > 0 {
		cfg.BuildFlags = []string{"-tags", strings.Join(opts.BuildTags, ",")}
	}

	pkgs, err := packages.Load(cfg, ".")
	if err != nil {
		return nil, eris.Wrapf(err, "loading package in %s", opts.Dir)
	}
	if len(pkgs) != 1 {
		return nil, eris.Errorf("expected exactly one package in %s, found %d", opts.Dir, len(pkgs))
	}
	pkg := pkgs[0]

	// User code may reference declarations that only exist once the world has been
	// generated. Those errors are expected; only a missing schema is fatal.
	for _, pkgErr := range pkg.Errors {
		opts.Logger.Debug().Str("package", pkg.PkgPath).Msg(pkgErr.Error())
	}
	if pkg.Types == nil {
		return nil, eris.Errorf("package in %s could not be type-checked", opts.Dir)
	}

	return FromPackage(pkg.Types, opts)
}

// FromPackage extracts the schema named opts.TypeName from an already type-checked package.
func FromPackage(pkg *types.Package, opts Options) (*World, error) {
	obj := pkg.Scope().Lookup(opts.TypeName)
	if obj == nil {
		return nil, eris.Errorf("type %s not found in package %s", opts.TypeName, pkg.Path())
	}
	typeName, ok := obj.(*types.TypeName)
	if !ok {
		return nil, eris.Errorf("%s is not a type", opts.TypeName)
	}
	st, ok := typeName.Type().Underlying().(*types.Struct)
	if !ok {
		return nil, eris.Errorf("schema %s must be a struct, got %s", opts.TypeName, typeName.Type().Underlying())
	}

	world := &World{
		Package:    pkg.Name(),
		Source:     opts.TypeName,
		Name:       opts.World,
		Kind:       opts.Kind,
		Template:   opts.Template,
		Components: make([]Component, 0, st.NumFields()),
	}

	for i := 0; i < st.NumFields(); i++ {
		component, err := componentFromField(pkg, st.Field(i), reflect.StructTag(st.Tag(i)))
		if err != nil {
			return nil, eris.Wrapf(err, "schema %s", opts.TypeName)
		}
		world.Components = append(world.Components, component)
	}

	if err := world.Validate(); err != nil {
		return nil, err
	}
	return world, nil
}

func componentFromField(pkg *types.Package, field *types.Var, tag reflect.StructTag) (Component, error) {
	if field.Embedded() {
		return Component{}, eris.Errorf("field %s: embedded fields are not supported, give the storage a name", field.Name())
	}

	named, ok := types.Unalias(field.Type()).(*types.Named)
	if !ok {
		return Component{}, eris.Errorf("field %s: component type %s must be a named type", field.Name(), field.Type())
	}
	obj := named.Obj()
	if obj.Pkg() != pkg {
		return Component{}, eris.Errorf("field %s: component type %s must be declared in package %s", field.Name(), named, pkg.Name())
	}
	if named.TypeParams().Len() > 0 || named.TypeArgs().Len() > 0 {
		return Component{}, eris.Errorf("field %s: generic component type %s is not supported", field.Name(), obj.Name())
	}
	switch named.Underlying().(type) {
	case *types.Interface:
		return Component{}, eris.Errorf("field %s: component type %s is an interface", field.Name(), obj.Name())
	case *types.Pointer:
		return Component{}, eris.Errorf("field %s: component type %s is a pointer type", field.Name(), obj.Name())
	}

	kind, err := ParseStorageKind(tag.Get(storageTag))
	if err != nil {
		return Component{}, eris.Wrapf(err, "field %s", field.Name())
	}

	alias := tag.Get(templateTag)
	if alias == "" {
		if !token.IsExported(obj.Name()) {
			return Component{}, eris.Errorf("field %s: component type %s is unexported, so it cannot name the template field; add a `template:\"Name\"` tag", field.Name(), obj.Name())
		}
		alias = obj.Name()
	}

	return Component{
		Field: field.Name(),
		Type:  obj.Name(),
		Kind:  kind,
		Alias: alias,
	}, nil
}
