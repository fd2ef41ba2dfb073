package codegen

import "github.com/dave/jennifer/jen"

// RecordFunctions builds DecodeX and EncodeX for a record type.
func (s *Synthesizer) RecordFunctions(t *GeneratedType) ([]*Function, error) {
	if t.Kind != TypeRecord {
		return nil, invalidShape(t.FullName(), "record functions requested for %s", t.Kind)
	}

	decode, err := s.recordDecoder(t)
	if err != nil {
		return nil, err
	}
	encode, err := s.recordEncoder(t)
	if err != nil {
		return nil, err
	}
	return []*Function{decode, encode}, nil
}

func (s *Synthesizer) recordDecoder(t *GeneratedType) (*Function, error) {
	name := "Decode" + t.GoName
	zero := jen.Id(t.GoName).Values()

	var body []jen.Code
	if len(t.Fields) > 0 {
		body = append(body, jen.Var().Defs(
			jen.Id("out").Id(t.GoName),
			jen.Err().Error(),
		))
	}
	for _, f := range t.Fields {
		dec, err := s.decoder(f.Schema, t.FullName()+"."+f.Name)
		if err != nil {
			return nil, err
		}
		expr := dec.Call(jen.Id("record").Dot("Get").Call(jen.Lit(f.Name)))
		body = append(body, jen.If(
			jen.List(jen.Id("out").Dot(f.GoName), jen.Err()).Op("=").Add(expr),
			jen.Err().Op("!=").Nil(),
		).Block(
			jen.Return(zero.Clone(), fieldError(t, f.Name)),
		))
	}
	if len(t.Fields) > 0 {
		body = append(body, jen.Return(jen.Id("out"), jen.Nil()))
	} else {
		body = append(body, jen.Return(zero.Clone(), jen.Nil()))
	}

	decl := jen.Commentf("%s converts a generic record into a %s.", name, t.GoName).Line().
		Func().Id(name).
		Params(jen.Id("record").Op("*").Qual(GenericImport, "Record")).
		Params(jen.Id(t.GoName), jen.Error()).
		Block(body...)

	return &Function{Name: name, Owner: t.Key(), Kind: FuncDecode, Decl: decl}, nil
}

func (s *Synthesizer) recordEncoder(t *GeneratedType) (*Function, error) {
	name := "Encode" + t.GoName

	body := []jen.Code{
		jen.List(jen.Id("record"), jen.Err()).Op(":=").Qual(GenericImport, "NewRecord").Call(jen.Id("schema")),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err())),
	}
	if len(t.Fields) > 0 {
		body = append(body, jen.Var().Id("v").Id("any"))
	}
	for _, f := range t.Fields {
		enc, err := s.encoder(f.Schema, t.FullName()+"."+f.Name)
		if err != nil {
			return nil, err
		}
		expr := enc.Call(jen.Id("record").Dot("FieldSchema").Call(jen.Lit(f.Name)), jen.Id("in").Dot(f.GoName))
		body = append(body,
			jen.If(
				jen.List(jen.Id("v"), jen.Err()).Op("=").Add(expr),
				jen.Err().Op("!=").Nil(),
			).Block(
				jen.Return(jen.Nil(), fieldError(t, f.Name)),
			),
			jen.Id("record").Dot("Put").Call(jen.Lit(f.Name), jen.Id("v")),
		)
	}
	body = append(body, jen.Return(jen.Id("record"), jen.Nil()))

	decl := jen.Commentf("%s converts a %s into a generic record of the given schema.", name, t.GoName).Line().
		Func().Id(name).
		Params(jen.Id("schema").Qual(AvroImport, "Schema"), jen.Id("in").Id(t.GoName)).
		Params(jen.Op("*").Qual(GenericImport, "Record"), jen.Error()).
		Block(body...)

	return &Function{Name: name, Owner: t.Key(), Kind: FuncEncode, Decl: decl}, nil
}

// EnumFunctions builds ParseX, DecodeX and EncodeX for an enum type.
func (s *Synthesizer) EnumFunctions(t *GeneratedType) ([]*Function, error) {
	if t.Kind != TypeEnum {
		return nil, invalidShape(t.FullName(), "enum functions requested for %s", t.Kind)
	}
	typ := jen.Id(t.GoName)

	parseName := "Parse" + t.GoName
	var parseBody []jen.Code
	if len(t.Symbols) > 0 {
		cases := make([]jen.Code, 0, len(t.Symbols))
		for _, sym := range t.Symbols {
			cases = append(cases, jen.Id(EnumConstName(t.GoName, sym)))
		}
		parseBody = append(parseBody, jen.Switch(typ.Clone().Call(jen.Id("s"))).Block(
			jen.Case(cases...).Block(jen.Return(typ.Clone().Call(jen.Id("s")), jen.Nil())),
		))
	}
	parseBody = append(parseBody, jen.Return(jen.Lit(""), jen.Qual(GenericImport, "NewSymbolError").Call(jen.Lit(t.FullName()), jen.Id("s"))))

	parse := jen.Commentf("%s returns the %s with the given symbol name.", parseName, t.GoName).Line().
		Func().Id(parseName).
		Params(jen.Id("s").String()).
		Params(typ.Clone(), jen.Error()).
		Block(parseBody...)

	decodeName := "Decode" + t.GoName
	decode := jen.Commentf("%s converts a generic enum value into a %s.", decodeName, t.GoName).Line().
		Func().Id(decodeName).
		Params(jen.Id("v").Id("any")).
		Params(typ.Clone(), jen.Error()).
		Block(
			jen.List(jen.Id("name"), jen.Err()).Op(":=").Qual(GenericImport, "DecodeEnumName").Call(jen.Id("v")),
			jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Lit(""), jen.Err())),
			jen.Return(jen.Id(parseName).Call(jen.Id("name"))),
		)

	encodeName := "Encode" + t.GoName
	encode := jen.Commentf("%s converts a %s into a generic enum value of the given schema.", encodeName, t.GoName).Line().
		Func().Id(encodeName).
		Params(jen.Id("schema").Qual(AvroImport, "Schema"), jen.Id("v").Add(typ.Clone())).
		Params(jen.Id("any"), jen.Error()).
		Block(
			jen.Return(jen.Qual(GenericImport, "EncodeEnumName").Call(jen.Id("schema"), jen.String().Call(jen.Id("v")))),
		)

	return []*Function{
		{Name: parseName, Owner: t.Key(), Kind: FuncParse, Decl: parse},
		{Name: decodeName, Owner: t.Key(), Kind: FuncDecode, Decl: decode},
		{Name: encodeName, Owner: t.Key(), Kind: FuncEncode, Decl: encode},
	}, nil
}

func fieldError(t *GeneratedType, field string) jen.Code {
	return jen.Qual(GenericImport, "NewFieldError").Call(jen.Lit(t.FullName()), jen.Lit(field), jen.Err())
}

