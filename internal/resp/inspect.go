package resp

import (
	"strconv"
	"strings"
)

// Inspect renders v the way redis-cli prints a reply
func Inspect(v Value) string {
	var sb strings.Builder
	inspect(&sb, v, 0)
	return sb.String()
}

func inspect(sb *strings.Builder, v Value, indent int) {
	switch v.Type {
	case TypeSimpleString:
		sb.WriteString(v.Text())
	case TypeError:
		sb.WriteString("(error) ")
		sb.WriteString(v.Text())
	case TypeInteger:
		sb.WriteString("(integer) ")
		sb.WriteString(strconv.FormatInt(v.Integer, 10))
	case TypeBulkString:
		sb.WriteString(strconv.Quote(v.Text()))
	case TypeNull:
		sb.WriteString("(nil)")
	case TypeArray:
		inspectArray(sb, v.Array, indent)
	default:
		sb.WriteString("(unknown type ")
		sb.WriteString(strconv.QuoteRune(rune(v.Type)))
		sb.WriteString(")")
	}
}

// inspectArray numbers each element; nested elements are aligned under their parent's first item
func inspectArray(sb *strings.Builder, elems []Value, indent int) {
	if len(elems) == 0 {
		sb.WriteString("(empty array)")
		return
	}

	width := len(strconv.Itoa(len(elems)))
	for i, el := range elems {
		if i > 0 {
			sb.WriteByte('\n')
			sb.WriteString(strings.Repeat(" ", indent))
		}
		num := strconv.Itoa(i + 1)
		sb.WriteString(strings.Repeat(" ", width-len(num)))
		sb.WriteString(num)
		sb.WriteString(") ")
		inspect(sb, el, indent+width+2)
	}
}
