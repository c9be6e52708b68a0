package output

import "github.com/jedib0t/go-pretty/v6/text"

func RedStr(s string) string {
	return text.FgRed.Sprint(s)
}

func GreenStr(s string) string {
	return text.FgGreen.Sprint(s)
}

func BoldStr(s string) string {
	return text.Bold.Sprint(s)
}
