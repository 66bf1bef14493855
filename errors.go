package sfx

import "fmt"

// TableErr reports problems with the embedded resource table.
type TableErr string

func (o *TableErr) Error() string {
	return string(*o)
}

func newTableErr(format string, a ...interface{}) *TableErr {
	err := TableErr(fmt.Sprintf(format, a...))
	return &err
}
