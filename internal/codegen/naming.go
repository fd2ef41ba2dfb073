package codegen

import (
	"path"
	"strings"
	"unicode"

	"github.com/ettle/strcase"
)

// TypeName derives the Go identifier of a record or enum.
func TypeName(name string) string {
	return strcase.ToGoPascal(name)
}

// FieldName derives the Go identifier of a struct field.
func FieldName(name string) string {
	return strcase.ToGoPascal(name)
}

// EnumConstName derives the constant for one enum symbol, e.g. Color + RED -> ColorRed.
func EnumConstName(typeName, symbol string) string {
	return typeName + strcase.ToGoPascal(strings.ToLower(symbol))
}

// PackageName returns the Go package for a namespace: its last segment,
// lowercased, with everything but letters and digits removed.
func PackageName(namespace string) string {
	last := namespace
	if i := strings.LastIndex(namespace, "."); i >= 0 {
		last = namespace[i+1:]
	}

	var b strings.Builder
	for _, r := range strings.ToLower(last) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}

	name := b.String()
	if name == "" || unicode.IsDigit(rune(name[0])) {
		name = "avro" + name
	}
	return name
}

// ImportPath joins the module import root with the namespace segments.
func ImportPath(root, namespace string) string {
	if namespace == "" {
		return root
	}
	return path.Join(root, strings.ReplaceAll(namespace, ".", "/"))
}

// FileName returns the generated file name for a top-level schema.
func FileName(name string) string {
	return strcase.ToSnake(name) + ".gen.go"
}
