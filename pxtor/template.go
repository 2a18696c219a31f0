package pxtor

import (
	"embed"
	"text/template"
)

var (
	//go:embed template
	templateFs embed.FS

	proxyTemplate = template.Must(template.New("proxy.tmpl").Funcs(template.FuncMap{
		"stdBoundary": stdBoundary,
	}).ParseFS(templateFs, "template/proxy.tmpl"))
)

// stdBoundary 在标准库和其它包之间插入一个空行
func stdBoundary(imports []Import, i int) bool {
	return i > 0 && isStd(imports[i-1].Path) && !isStd(imports[i].Path)
}
