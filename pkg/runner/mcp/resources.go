package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerEntriesResource(srv, svc)
	registerEntryTemplate(srv, svc)
	registerMonthTemplate(srv, svc)
}

func registerEntriesResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"calendiary://entries",
		"Diary Entries",
		mcp.WithResourceDescription("Every diary entry, most recent first."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		entries, err := svc.ListAll(ctx)
		if err != nil {
			return nil, err
		}

		payload := map[string]any{
			"entries": entries,
			"count":   len(entries),
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

func registerEntryTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"calendiary://entries/{date}",
		"Diary Entry",
		mcp.WithTemplateDescription("The entry for a single date (YYYY-MM-DD)."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		raw := templateArg(request, "date")
		if raw == "" {
			return nil, fmt.Errorf("date is required")
		}
		date, err := svc.ParseDate(raw)
		if err != nil {
			return nil, err
		}

		dto, err := svc.Entry(ctx, date)
		if err != nil {
			return nil, err
		}

		payload := map[string]any{
			"date":  date.String(),
			"found": dto != nil,
			"entry": dto,
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

func registerMonthTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"calendiary://months/{month}",
		"Month Grid",
		mcp.WithTemplateDescription("Calendar grid of a month (YYYY-MM) with entry marks."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		year, month, err := svc.ParseMonth(templateArg(request, "month"))
		if err != nil {
			return nil, err
		}

		grid, err := svc.Month(ctx, year, month)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, grid)
	})
}

// templateArg reads a URI template variable. Depending on the client the
// value arrives as a string or a single-element list.
func templateArg(request mcp.ReadResourceRequest, name string) string {
	switch v := request.Params.Arguments[name].(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
