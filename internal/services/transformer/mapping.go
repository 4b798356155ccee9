// Package transformer converts form submissions into the lottery and Power Automate formats.
package transformer

// Semantic field keys.
const (
	FieldName      = "name"
	FieldStudentID = "student_id"
	FieldGender    = "gender"
	FieldEmail     = "email"
	FieldPhone     = "phone"
)

// Field ties a semantic key to the form question that answers it.
type Field struct {
	Key   string
	QID   string
	Title string
}

// FieldMapping is a read-only key -> question table.
type FieldMapping struct {
	fields map[string]Field
}

// NewFieldMapping builds a mapping; later fields with the same key win.
func NewFieldMapping(fields ...Field) FieldMapping {
	m := FieldMapping{fields: make(map[string]Field, len(fields))}
	for _, f := range fields {
		m.fields[f.Key] = f
	}
	return m
}

// DefaultFieldMapping matches the registration form currently in use.
var DefaultFieldMapping = NewFieldMapping(
	Field{Key: FieldName, QID: "k9ce0p", Title: "姓名｜Name"},
	Field{Key: FieldStudentID, QID: "br1kvx", Title: "学号｜Student ID"},
	Field{Key: FieldGender, QID: "wdfqio", Title: "性别 | Gender"},
	Field{Key: FieldEmail, QID: "30f4xe", Title: "UNNC邮箱｜UNNC Email"},
	Field{Key: FieldPhone, QID: "7wpvum", Title: "手机号｜Telephone Number"},
)

// Lookup returns the field registered under key.
func (m FieldMapping) Lookup(key string) (Field, bool) {
	f, ok := m.fields[key]
	return f, ok
}

// QID returns the question id for key, or "" when the key is unmapped.
func (m FieldMapping) QID(key string) string {
	return m.fields[key].QID
}

// Title returns the question title for key, falling back to the key itself.
func (m FieldMapping) Title(key string) string {
	if f, ok := m.fields[key]; ok && f.Title != "" {
		return f.Title
	}
	return key
}
