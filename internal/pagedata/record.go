package pagedata

import (
	"errors"
	"log/slog"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	terrors "git.home.luguber.info/inful/topsoil/internal/errors"
	"git.home.luguber.info/inful/topsoil/internal/paths"
)

// Reserved record keys.
const (
	KeyFileName = "file-name"
	KeyLoc      = "loc"
	KeyTemplate = "tpl"
	KeyData     = "data"
)

// Validation messages reported for unusable page records.
const (
	MsgLocRequired  = `Page data location must at least be set to "/".`
	MsgLocNotString = "Page data location is not a string."
	MsgLocTraversal = `Page data location must not contain "." or ".." segments.`
	MsgTplRequired  = "Page data template must be set."
	MsgTplNotString = "Page data template is not a string."
)

const (
	codeLocRequired  = "loc_required"
	codeLocNotString = "loc_not_string"
	codeLocTraversal = "loc_traversal"
	codeTplRequired  = "tpl_required"
	codeTplNotString = "tpl_not_string"
	codeTplUnknown   = "tpl_unknown"
)

// Record is one parsed page-data file. Fields holds every top-level key of
// the document plus the injected file name.
type Record struct {
	FileName string
	Fields   map[string]any
}

// Loc returns the raw loc string; ok is false when it is absent or not a string.
func (r *Record) Loc() (string, bool) {
	s, ok := r.Fields[KeyLoc].(string)
	return s, ok
}

// Template returns the name of the template the page is rendered with.
func (r *Record) Template() (string, bool) {
	s, ok := r.Fields[KeyTemplate].(string)
	return s, ok
}

// Data returns the substitution mapping. Records without an object at "data"
// return nil, which renders every token empty.
func (r *Record) Data() map[string]any {
	m, _ := r.Fields[KeyData].(map[string]any)
	return m
}

// LogValue implements slog.LogValuer.
func (r *Record) LogValue() slog.Value {
	loc, _ := r.Loc()
	tpl, _ := r.Template()
	return slog.GroupValue(
		slog.String("file", r.FileName),
		slog.String("loc", loc),
		slog.String("tpl", tpl),
		slog.Int("fields", len(r.Fields)),
	)
}

// TemplateSet reports whether a template name is known.
type TemplateSet interface {
	Has(name string) bool
}

// Validate checks that the record can be built: loc must be a string that
// starts with "/" and has no "." or ".." segments, and tpl must name a
// template in templates. Loc is checked first. A nil templates skips the
// existence check.
func (r *Record) Validate(templates TemplateSet) error {
	if err := validation.Validate(r.Fields[KeyLoc], locRules...); err != nil {
		return terrors.ValidationFailed(r.FileName, err.Error()).WithContext("loc", r.Fields[KeyLoc])
	}
	err := validation.Validate(r.Fields[KeyTemplate], templateRules(templates)...)
	if err == nil {
		return nil
	}
	var verr validation.Error
	if errors.As(err, &verr) && verr.Code() == codeTplUnknown {
		name, _ := r.Template()
		return terrors.TemplateNotFound(name, r.FileName)
	}
	return terrors.ValidationFailed(r.FileName, err.Error())
}

var (
	errLocRequired  = validation.NewError(codeLocRequired, MsgLocRequired)
	errLocNotString = validation.NewError(codeLocNotString, MsgLocNotString)
	errLocTraversal = validation.NewError(codeLocTraversal, MsgLocTraversal)
	errTplRequired  = validation.NewError(codeTplRequired, MsgTplRequired)
	errTplNotString = validation.NewError(codeTplNotString, MsgTplNotString)
	errTplUnknown   = validation.NewError(codeTplUnknown, "template not found")
)

var locRules = []validation.Rule{
	validation.NotNil.ErrorObject(errLocRequired),
	validation.By(isString(errLocNotString)),
	validation.Required.ErrorObject(errLocRequired),
	validation.Match(regexp.MustCompile(`^/`)).ErrorObject(errLocRequired),
	validation.By(withinRoot),
}

func templateRules(templates TemplateSet) []validation.Rule {
	return []validation.Rule{
		validation.NotNil.ErrorObject(errTplRequired),
		validation.By(isString(errTplNotString)),
		validation.Required.ErrorObject(errTplRequired),
		validation.By(func(value any) error {
			if templates != nil && !templates.Has(value.(string)) {
				return errTplUnknown
			}
			return nil
		}),
	}
}

func isString(fail validation.Error) validation.RuleFunc {
	return func(value any) error {
		if _, ok := value.(string); !ok {
			return fail
		}
		return nil
	}
}

// withinRoot rejects locations that would resolve outside the build directory.
func withinRoot(value any) error {
	for _, seg := range paths.Segments(value.(string)) {
		if seg == "." || seg == ".." {
			return errLocTraversal
		}
	}
	return nil
}
