package config

import (
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/linecard/filelink/internal/util"
)

const scaffoldTemplate = "embedded/scaffold/filelink.toml.tmpl"

// Scaffold writes a stack file for the named preset. An existing file is never overwritten.
func Scaffold(preset, path string) error {
	c, err := Preset(preset)
	if err != nil {
		return err
	}

	if util.PathExists(path) {
		return fmt.Errorf("%s already exists", path)
	}

	content, err := embedded.ReadFile(scaffoldTemplate)
	if err != nil {
		return err
	}

	tmpl, err := template.New("filelink.toml").Funcs(template.FuncMap{
		"quoted": func(values []string) string {
			quoted := make([]string, len(values))
			for i, v := range values {
				quoted[i] = fmt.Sprintf("%q", v)
			}
			return strings.Join(quoted, ", ")
		},
	}).Parse(string(content))
	if err != nil {
		return err
	}

	outputFile, err := os.Create(path)
	if err != nil {
		return err
	}
	defer outputFile.Close()

	return tmpl.Execute(outputFile, c)
}
