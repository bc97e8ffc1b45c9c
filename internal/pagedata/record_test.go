package pagedata

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	terrors "git.home.luguber.info/inful/topsoil/internal/errors"
)

type knownTemplates map[string]bool

func (k knownTemplates) Has(name string) bool { return k[name] }

func record(fields map[string]any) *Record {
	fields[KeyFileName] = "page.json"
	return &Record{FileName: "page.json", Fields: fields}
}

func TestRecordValidate(t *testing.T) {
	templates := knownTemplates{"home.html": true}

	tests := []struct {
		name     string
		fields   map[string]any
		category terrors.ErrorCategory
		message  string
	}{
		{"valid root", map[string]any{"loc": "/", "tpl": "home.html"}, "", ""},
		{"valid nested", map[string]any{"loc": "/a/b", "tpl": "home.html"}, "", ""},
		{"missing loc", map[string]any{"tpl": "home.html"}, terrors.CategoryValidation, MsgLocRequired},
		{"empty loc", map[string]any{"loc": "", "tpl": "home.html"}, terrors.CategoryValidation, MsgLocRequired},
		{"relative loc", map[string]any{"loc": "no-leading-slash", "tpl": "home.html"}, terrors.CategoryValidation, MsgLocRequired},
		{"numeric loc", map[string]any{"loc": float64(1), "tpl": "home.html"}, terrors.CategoryValidation, MsgLocNotString},
		{"parent segment loc", map[string]any{"loc": "/../../escape", "tpl": "home.html"}, terrors.CategoryValidation, MsgLocTraversal},
		{"nested parent segment loc", map[string]any{"loc": "/a/b/../../../c", "tpl": "home.html"}, terrors.CategoryValidation, MsgLocTraversal},
		{"current segment loc", map[string]any{"loc": "/a/./b", "tpl": "home.html"}, terrors.CategoryValidation, MsgLocTraversal},
		{"dots inside segment", map[string]any{"loc": "/v1..2/.well", "tpl": "home.html"}, "", ""},
		{"empty tpl", map[string]any{"loc": "/", "tpl": ""}, terrors.CategoryValidation, MsgTplRequired},
		{"missing tpl", map[string]any{"loc": "/"}, terrors.CategoryValidation, MsgTplRequired},
		{"numeric tpl", map[string]any{"loc": "/", "tpl": true}, terrors.CategoryValidation, MsgTplNotString},
		{"unknown tpl", map[string]any{"loc": "/", "tpl": "other.html"}, terrors.CategoryTemplate, "template not found"},
		{"loc checked first", map[string]any{"loc": "x", "tpl": "other.html"}, terrors.CategoryValidation, MsgLocRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := record(tt.fields).Validate(templates)
			if tt.category == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			te, ok := terrors.As(err)
			require.True(t, ok)
			assert.Equal(t, tt.category, te.Category)
			assert.Equal(t, tt.message, te.Message)
			assert.Equal(t, "page.json", te.Context["file"])
		})
	}
}

func TestRecordValidate_NilTemplateSet(t *testing.T) {
	require.NoError(t, record(map[string]any{"loc": "/", "tpl": "anything"}).Validate(nil))
}

func TestRecordData_WithoutDataObject(t *testing.T) {
	assert.Nil(t, record(map[string]any{"title": "Hi"}).Data())
	assert.Nil(t, record(map[string]any{"data": "flat"}).Data())
}

func TestRecordLogValue(t *testing.T) {
	var buf bytes.Buffer
	r := record(map[string]any{"loc": "/a", "tpl": "home.html"})
	slog.New(slog.NewTextHandler(&buf, nil)).Info("page", "page", r)
	assert.Contains(t, buf.String(), "page.loc=/a")
	assert.Contains(t, buf.String(), "page.file=page.json")
}
