package project

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/Sokol111/avropoet/internal/codegen"
	"github.com/Sokol111/avropoet/internal/emitter"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const (
	addressSchema = `{
		"type": "record", "name": "Address", "namespace": "com.example",
		"fields": [{"name": "street", "type": "string"}, {"name": "zip", "type": "int"}]
	}`
	contactSchema = `{
		"type": "record", "name": "Contact", "namespace": "com.example",
		"fields": [
			{"name": "email", "type": "string"},
			{"name": "address", "type": "com.example.Address"}
		]
	}`
	customerSchema = `{
		"type": "record", "name": "Customer", "namespace": "com.example.crm",
		"fields": [
			{"name": "name", "type": "string"},
			{"name": "contact", "type": "com.example.Contact"},
			{"name": "home", "type": ["null", "com.example.Address"]}
		]
	}`
	invoiceSchema = `{
		"type": "record", "name": "Invoice", "namespace": "com.example.billing",
		"fields": [
			{"name": "number", "type": "string"},
			{"name": "issued", "type": {"type": "long", "logicalType": "timestamp-millis"}},
			{"name": "bill_to", "type": "com.example.Address"}
		]
	}`
	shipmentSchema = `{
		"type": "record", "name": "Shipment", "namespace": "com.example.billing",
		"fields": [{"name": "id", "type": "string"}]
	}`
)

var errSinkFull = errors.New("disk full")

type failingSink struct{}

func (failingSink) Write(context.Context, string, []byte) error { return errSinkFull }

func writeSchemas(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func projectFiles() map[string]string {
	return map[string]string{
		"shared/a_address.avsc": addressSchema,
		"shared/b_contact.avsc": contactSchema,
		"crm/customer.avsc":     customerSchema,
		"billing/invoice.avsc":  invoiceSchema,
		"billing/shipment.avsc": shipmentSchema,
	}
}

func newBuilder(root string, parallelism int, sink emitter.Sink, logger *zap.Logger) *Builder {
	return NewBuilder(Options{
		Input:       root,
		Codegen:     codegen.Options{ImportRoot: "example.com/gen", DefaultNamespace: "generated"},
		Parallelism: parallelism,
	}, sink, logger)
}

func unitNames(res *Result) []string {
	return lo.Map(res.Units, func(u *codegen.Unit, _ int) string { return u.FullName() })
}

func TestBuilder_Build(t *testing.T) {
	for _, parallelism := range []int{1, 4} {
		t.Run(fmt.Sprintf("parallelism %d", parallelism), func(t *testing.T) {
			// Arrange
			root := writeSchemas(t, projectFiles())
			sink := &emitter.MemorySink{}

			// Act
			res, err := newBuilder(root, parallelism, sink, zap.NewNop()).Build(context.Background())

			// Assert
			require.NoError(t, err)
			assert.NotEmpty(t, res.BuildID)
			assert.Equal(t, 2, res.Shared)
			assert.Equal(t, 3, res.Dependent)
			assert.Equal(t, []string{
				"com.example.Address",
				"com.example.Contact",
				"com.example.billing.Invoice",
				"com.example.billing.Shipment",
				"com.example.crm.Customer",
			}, unitNames(res))
			assert.Equal(t, []string{
				filepath.Join("com", "example", "address.gen.go"),
				filepath.Join("com", "example", "billing", "invoice.gen.go"),
				filepath.Join("com", "example", "billing", "shipment.gen.go"),
				filepath.Join("com", "example", "contact.gen.go"),
				filepath.Join("com", "example", "crm", "customer.gen.go"),
			}, sink.Paths())
			assert.Equal(t, []string{
				"example.com/gen/com/example",
				"example.com/gen/com/example/billing",
				"example.com/gen/com/example/crm",
			}, res.Packages())
		})
	}
}

func TestBuilder_SharedSchemasReferenceEarlierOnes(t *testing.T) {
	root := writeSchemas(t, projectFiles())

	res, err := newBuilder(root, 1, emitter.Discard{}, nil).Build(context.Background())

	require.NoError(t, err)
	contact := res.Units[1]
	assert.Equal(t, []string{"com.example.Contact"}, lo.Map(contact.Types, func(gt *codegen.GeneratedType, _ int) string {
		return gt.FullName()
	}))

	customer := res.Units[4]
	require.Len(t, customer.Types, 1, "shared types are referenced, not re-declared")
	assert.Equal(t, "example.Contact", customer.Types[0].Fields[1].Type.String())
	assert.Equal(t, "*example.Address", customer.Types[0].Fields[2].Type.String())
}

func TestBuilder_InvalidSchemaNamesFile(t *testing.T) {
	files := projectFiles()
	files["billing/broken.avsc"] = `{"type": "record", "name": "Broken", "fields": [{"name": "x", "type": "nope"}]}`
	root := writeSchemas(t, files)

	for _, parallelism := range []int{1, 3} {
		res, err := newBuilder(root, parallelism, &emitter.MemorySink{}, nil).Build(context.Background())

		require.Error(t, err)
		assert.Nil(t, res)
		assert.Contains(t, err.Error(), "broken.avsc")
	}
}

func TestBuilder_UnsupportedConstructAbortsBuild(t *testing.T) {
	root := writeSchemas(t, map[string]string{
		"hash.avsc": `{
			"type": "record", "name": "Blob", "namespace": "com.example",
			"fields": [{"name": "digest", "type": {"type": "fixed", "name": "Digest", "size": 16}}]
		}`,
	})

	_, err := newBuilder(root, 1, emitter.Discard{}, nil).Build(context.Background())

	assert.ErrorIs(t, err, codegen.ErrUnsupportedConstruct)
}

func TestBuilder_InlinedTypeDeclaredTwiceInOnePackage(t *testing.T) {
	status := `{"type": "enum", "name": "Status", "symbols": ["OPEN", "CLOSED"]}`
	root := writeSchemas(t, map[string]string{
		"ticket.avsc": `{"type": "record", "name": "Ticket", "namespace": "com.example.support",
			"fields": [{"name": "status", "type": ` + status + `}]}`,
		"task.avsc": `{"type": "record", "name": "Task", "namespace": "com.example.support",
			"fields": [{"name": "status", "type": ` + status + `}]}`,
	})

	out := t.TempDir()

	_, err := newBuilder(root, 1, emitter.FileSink{Root: out}, nil).Build(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, codegen.ErrSchemaShape)
	assert.Contains(t, err.Error(), "move it to a shared schema")
	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing is written when the build fails")
}

func TestBuilder_FailedSchemaWritesNothing(t *testing.T) {
	// Given: a valid schema discovered before an unsupported one
	files := projectFiles()
	files["zz_blob.avsc"] = `{
		"type": "record", "name": "Blob", "namespace": "com.example.storage",
		"fields": [{"name": "digest", "type": {"type": "fixed", "name": "Digest", "size": 16}}]
	}`
	root := writeSchemas(t, files)
	sink := &emitter.MemorySink{}

	// When
	_, err := newBuilder(root, 1, sink, nil).Build(context.Background())

	// Then
	assert.ErrorIs(t, err, codegen.ErrUnsupportedConstruct)
	assert.Empty(t, sink.Paths())
}

func TestBuilder_SinkErrorFailsBuild(t *testing.T) {
	root := writeSchemas(t, map[string]string{"shipment.avsc": shipmentSchema})

	_, err := newBuilder(root, 1, failingSink{}, nil).Build(context.Background())

	assert.ErrorIs(t, err, errSinkFull)
}

func TestBuilder_CanceledContext(t *testing.T) {
	root := writeSchemas(t, projectFiles())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newBuilder(root, 1, emitter.Discard{}, nil).Build(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuilder_MissingInput(t *testing.T) {
	_, err := newBuilder(filepath.Join(t.TempDir(), "missing"), 1, emitter.Discard{}, nil).Build(context.Background())

	assert.Error(t, err)
}

func TestBuilder_LogsCarryBuildID(t *testing.T) {
	// Given
	core, logs := observer.New(zapcore.InfoLevel)
	root := writeSchemas(t, map[string]string{"shipment.avsc": shipmentSchema})

	// When
	res, err := newBuilder(root, 1, emitter.Discard{}, zap.New(core)).Build(context.Background())

	// Then
	require.NoError(t, err)
	finished := logs.FilterMessage("build finished").All()
	require.Len(t, finished, 1)
	assert.Equal(t, res.BuildID, finished[0].ContextMap()["build_id"])
	assert.EqualValues(t, 1, finished[0].ContextMap()["units"])
}
