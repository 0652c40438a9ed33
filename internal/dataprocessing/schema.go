package dataprocessing

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	apperrors "ledgerdash/internal/errors"
	"ledgerdash/pkg/contracts/domain"
)

// FieldType is the semantic type of a ledger field
type FieldType string

const (
	TypeDate    FieldType = "date"
	TypeText    FieldType = "text"
	TypeNumeric FieldType = "numeric"
)

// FieldSpec binds a ledger field to its sheet column and semantic type.
// Derived fields have no column.
type FieldSpec struct {
	Field  domain.Field
	Column string
	Type   FieldType
}

// Derived reports whether the field is computed rather than read
func (s FieldSpec) Derived() bool {
	return s.Column == ""
}

// LedgerSchema is the fixed column set of a delivery ledger sheet, in sheet order
var LedgerSchema = []FieldSpec{
	{Field: domain.FieldDate, Column: "DATE", Type: TypeDate},
	{Field: domain.FieldAgent, Column: "LIVREUR", Type: TypeText},
	{Field: domain.FieldOrdered, Column: "T. COMMANDE", Type: TypeNumeric},
	{Field: domain.FieldDelivered, Column: "T.LOGICIEL", Type: TypeNumeric},
	{Field: domain.FieldDeposited, Column: "VERSEMENT", Type: TypeNumeric},
	{Field: domain.FieldExpense, Column: "CHARGE", Type: TypeNumeric},
	{Field: domain.FieldDifference, Column: "DIFF", Type: TypeNumeric},
	{Field: domain.FieldNote, Column: "OBSERVATION", Type: TypeText},
	{Field: domain.FieldRetour, Type: TypeNumeric},
}

var schemaIndex = func() map[string]FieldSpec {
	idx := make(map[string]FieldSpec, 2*len(LedgerSchema))
	for _, spec := range LedgerSchema {
		idx[normalizeLabel(string(spec.Field))] = spec
		if spec.Column != "" {
			idx[normalizeLabel(spec.Column)] = spec
		}
	}
	idx[normalizeLabel("RETOUR")] = LedgerSchema[len(LedgerSchema)-1]
	return idx
}()

// LookupField resolves a field by its name or its column header.
// Matching ignores case, accents and spaces.
func LookupField(name string) (FieldSpec, error) {
	spec, ok := schemaIndex[normalizeLabel(name)]
	if !ok {
		return FieldSpec{}, apperrors.UnknownField(name)
	}
	return spec, nil
}

// ColumnLabel returns the sheet header of f, or the upper-cased field name for derived fields
func ColumnLabel(f domain.Field) string {
	if spec, err := LookupField(string(f)); err == nil && spec.Column != "" {
		return spec.Column
	}
	return strings.ToUpper(string(f))
}

// ParseFields resolves names into schema fields, failing on the first unknown name
func ParseFields(names []string) ([]domain.Field, error) {
	fields := make([]domain.Field, 0, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		spec, err := LookupField(name)
		if err != nil {
			return nil, err
		}
		fields = append(fields, spec.Field)
	}
	return fields, nil
}

// ValidateSumFields checks that every field can be summed. The note field is
// accepted only when allowNote is set, for lookups that concatenate notes.
func ValidateSumFields(fields []domain.Field, allowNote bool) error {
	if len(fields) == 0 {
		return apperrors.NoSelection("field")
	}
	for _, f := range fields {
		spec, err := LookupField(string(f))
		if err != nil {
			return err
		}
		if spec.Type == TypeNumeric {
			continue
		}
		if allowNote && spec.Field == domain.FieldNote {
			continue
		}
		return apperrors.UnknownField(string(f)).
			WithContext("reason", "field cannot be summed")
	}
	return nil
}

var stripMarks = runes.Remove(runes.In(unicode.Mn))

// foldAccents removes diacritics: "FÉVRIER" becomes "FEVRIER"
func foldAccents(s string) string {
	out, _, err := transform.String(transform.Chain(norm.NFD, stripMarks, norm.NFC), s)
	if err != nil {
		return s
	}
	return out
}

// normalizeLabel upper-cases, strips accents and removes all whitespace
func normalizeLabel(s string) string {
	s = strings.ToUpper(foldAccents(s))
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
