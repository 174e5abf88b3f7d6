package metadata

// Scope selects which workbooks a processing run covers: a single named
// workbook folder, or every workbook subfolder under the root.
type Scope struct {
	workbook string
	all      bool
}

func AllWorkbooks() Scope { return Scope{all: true} }

func SingleWorkbook(name string) Scope { return Scope{workbook: name} }

// All reports whether the scope covers every workbook.
func (s Scope) All() bool { return s.all }

// Workbook returns the selected workbook name; ok is false for the
// all-workbooks scope.
func (s Scope) Workbook() (name string, ok bool) {
	return s.workbook, !s.all && s.workbook != ""
}
