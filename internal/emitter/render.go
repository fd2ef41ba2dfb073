// Package emitter renders codegen units as Go source files and hands them to
// a Sink.
package emitter

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Sokol111/avropoet/internal/codegen"
	"github.com/dave/jennifer/jen"
)

// Header marks every rendered file as generated.
const Header = "Code generated by avropoet. DO NOT EDIT."

// Render builds the Go file of a unit: type definitions first, in
// registration order, then the conversion functions.
func Render(unit *codegen.Unit) *jen.File {
	f := jen.NewFilePathName(unit.ImportPath, unit.Package)
	f.HeaderComment(Header)
	f.ImportName(codegen.AvroImport, "avro")
	f.ImportName(codegen.GenericImport, "generic")

	for _, t := range unit.Types {
		switch t.Kind {
		case codegen.TypeRecord:
			renderRecord(f, t)
		case codegen.TypeEnum:
			renderEnum(f, t)
		}
	}

	for _, fn := range unit.Functions {
		f.Add(fn.Decl)
		f.Line()
	}

	return f
}

// Path returns the file path of a unit relative to the output root: one
// directory per namespace segment and a snake_case file name.
func Path(unit *codegen.Unit) string {
	parts := []string{}
	if unit.Namespace != "" {
		parts = strings.Split(unit.Namespace, ".")
	}
	parts = append(parts, codegen.FileName(unit.Name))
	return filepath.Join(parts...)
}

func renderRecord(f *jen.File, t *codegen.GeneratedType) {
	comment(f, t, "record")
	f.Type().Id(t.GoName).StructFunc(func(g *jen.Group) {
		for _, field := range t.Fields {
			for _, line := range docLines(field.Doc) {
				g.Comment(line)
			}
			g.Id(field.GoName).Add(field.Type.Code()).Tag(map[string]string{
				"avro": field.Name,
				"json": field.Name,
			})
		}
	})
	f.Line()
}

func renderEnum(f *jen.File, t *codegen.GeneratedType) {
	comment(f, t, "enum")
	f.Type().Id(t.GoName).String()
	f.Line()

	f.Comment(fmt.Sprintf("Symbols of %s.", t.GoName))
	f.Const().DefsFunc(func(g *jen.Group) {
		for _, sym := range t.Symbols {
			g.Id(codegen.EnumConstName(t.GoName, sym)).Id(t.GoName).Op("=").Lit(sym)
		}
	})
	f.Line()

	f.Func().
		Params(jen.Id("e").Id(t.GoName)).
		Id("String").
		Params().
		String().
		Block(jen.Return(jen.String().Call(jen.Id("e"))))
	f.Line()
}

func comment(f *jen.File, t *codegen.GeneratedType, kind string) {
	lines := docLines(t.Doc)
	if len(lines) == 0 {
		f.Commentf("%s is generated from the Avro %s %s.", t.GoName, kind, t.FullName())
		return
	}
	for _, line := range lines {
		f.Comment(line)
	}
}

func docLines(doc string) []string {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return nil
	}
	lines := strings.Split(doc, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return lines
}
