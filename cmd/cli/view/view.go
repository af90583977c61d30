package view

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/linecard/filelink/pkg/convention/config"
	"github.com/linecard/filelink/pkg/convention/curl"
	"github.com/linecard/filelink/pkg/convention/deployment"
	"github.com/linecard/filelink/pkg/convention/httproxy"
	"github.com/linecard/filelink/pkg/convention/manifest"
	"github.com/linecard/filelink/pkg/convention/stack"
	"github.com/linecard/filelink/pkg/convention/storage"
	"github.com/linecard/filelink/pkg/fault"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/charmbracelet/lipgloss"
	"github.com/golang-module/carbon/v2"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"
)

var (
	good = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	bad  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	dim  = lipgloss.NewStyle().Faint(true)
)

func newTable(w io.Writer, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(header)
	return t
}

func present(exists bool) string {
	if exists {
		return good.Render("present")
	}
	return bad.Render("missing")
}

func pass(ok bool) string {
	if ok {
		return good.Render("pass")
	}
	return bad.Render("fail")
}

// Plan encodes the plan as json or yaml.
func Plan(w io.Writer, plan manifest.Plan, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(plan)

	case "yaml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		defer encoder.Close()
		return encoder.Encode(plan)

	default:
		return fmt.Errorf("%w: unknown format %q, want json or yaml", fault.ErrInvalidConfig, format)
	}
}

func Release(w io.Writer, release stack.Release) {
	t := newTable(w, table.Row{"Kind", "Name", "Arn"})

	for _, resource := range release.Plan.Resources() {
		t.AppendRow(table.Row{resource.Kind, resource.Name, dim.Render(resource.Arn)})
	}

	t.AppendFooter(table.Row{"entry", release.Endpoint.Kind, release.Endpoint.Url})
	t.Render()
}

func Status(w io.Writer, status stack.Status) {
	t := newTable(w, table.Row{"Kind", "Name", "State", "Detail"})

	t.AppendRow(table.Row{
		manifest.KindBucket,
		status.Plan.Bucket.Name,
		present(status.Storage.Bucket.Exists),
		string(status.Storage.Bucket.Versioning),
	})

	if status.Plan.Table.Enabled {
		t.AppendRow(table.Row{
			manifest.KindTable,
			status.Plan.Table.Name,
			present(status.Storage.Table.Exists),
			fmt.Sprintf("%s %s items", status.Storage.Table.Status, strconv.FormatInt(status.Storage.Table.ItemCount, 10)),
		})
	}

	t.AppendRow(functionRow(status.Plan.Function.Name, status.Deployment))

	if len(status.Endpoints) == 0 {
		t.AppendRow(table.Row{"entry", status.Plan.Entry.Kind, present(false), ""})
	}

	for _, endpoint := range status.Endpoints {
		t.AppendRow(endpointRow(endpoint))
	}

	t.Render()
}

func functionRow(name string, d *deployment.Deployment) table.Row {
	if d == nil || d.Configuration == nil {
		return table.Row{manifest.KindFunction, name, present(false), ""}
	}

	modified := carbon.Parse(aws.ToString(d.Configuration.LastModified)).DiffForHumans()

	return table.Row{
		manifest.KindFunction,
		name,
		present(true),
		fmt.Sprintf("%s, updated %s", d.Configuration.State, modified),
	}
}

func endpointRow(endpoint httproxy.Endpoint) table.Row {
	kind := manifest.KindFunctionUrl
	if endpoint.Kind == config.Gateway {
		kind = manifest.KindGateway
	}

	return table.Row{kind, endpoint.Url, present(true), strings.Join(endpoint.Routes, ", ")}
}

func Checks(w io.Writer, checks []deployment.Check) {
	t := newTable(w, table.Row{"Action", "Resource", "Expect", "Decision", "Result"})

	for _, check := range checks {
		expect := "deny"
		if check.Allowed {
			expect = "allow"
		}

		t.AppendRow(table.Row{check.Action, check.Resource, expect, check.Decision, pass(check.Pass())})
	}

	t.Render()
}

func Smoke(w io.Writer, endpoint httproxy.Endpoint, results []curl.Result) {
	t := newTable(w, table.Row{"Check", "Request", "Want", "Got", "Result"})
	t.SetTitle(endpoint.Url)

	for _, result := range results {
		status := pass(result.Pass())
		if result.Detail != "" {
			status += " " + dim.Render(result.Detail)
		}

		t.AppendRow(table.Row{result.Name, result.Method + " " + result.Path, result.Want, result.Got, status})
	}

	t.Render()
}

func Teardown(w io.Writer, c config.Config, teardown storage.Teardown) {
	t := newTable(w, table.Row{"Stack", "Retention", "Objects Removed", "Index Deleted"})

	if teardown.Retained {
		t.AppendRow(table.Row{c.ResourceName(), good.Render(string(c.Retention)), dim.Render("kept"), dim.Render("kept")})
	} else {
		t.AppendRow(table.Row{c.ResourceName(), c.Retention, teardown.ObjectsRemoved, teardown.TableDeleted})
	}

	t.Render()
}
