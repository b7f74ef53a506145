package crop

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unsafe"

	"github.com/mitranim/sqlb"
)

func try(err error) {
	if err != nil {
		panic(err)
	}
}

func appendStr(buf *[]byte, str string) {
	*buf = append(*buf, str...)
}

func appendEnclosed(buf *[]byte, prefix, infix, suffix string) {
	*buf = append(*buf, prefix...)
	*buf = append(*buf, infix...)
	*buf = append(*buf, suffix...)
}

/*
Appends a quoted SQL identifier. Identifiers come from schema declarations and
the entity metamodel, never from raw user input, so a double quote inside one
is a programming error.
*/
func appendIdent(buf *[]byte, str string) {
	if strings.Contains(str, `"`) {
		panic(fmt.Errorf(`[crop] unexpected %q in SQL identifier %q`, `"`, str))
	}
	appendEnclosed(buf, `"`, str, `"`)
}

// Appends the argument and the matching ordinal placeholder such as `$3`.
func appendArg(text []byte, args []any, val any) ([]byte, []any) {
	args = append(args, val)
	text = append(text, '$')
	text = strconv.AppendInt(text, int64(len(args)), 10)
	return text, args
}

func isJsonNull(val []byte) bool { return string(bytes.TrimSpace(val)) == `null` }

func toAnys[A any](src []A) []any {
	if src == nil {
		return nil
	}
	out := make([]any, len(src))
	for i, val := range src {
		out[i] = val
	}
	return out
}

func copyInts(src []int) []int {
	return append([]int(nil), src...)
}

/*
Allocation-free conversion. Reinterprets a byte slice as a string. Borrowed from
the standard library. Reasonably safe. Should not be used when the underlying
byte array is volatile.
*/
func bytesToMutableString(bytes []byte) string {
	return *(*string)(unsafe.Pointer(&bytes))
}

// Renders the text of the expression, dropping the arguments.
func exprString(expr sqlb.Expr) string {
	text, _ := expr.AppendExpr(nil, nil)
	return bytesToMutableString(text)
}
