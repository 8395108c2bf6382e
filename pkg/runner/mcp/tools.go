package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerGetEntryTool(srv, svc)
	registerSaveEntryTool(srv, svc)
	registerDeleteEntryTool(srv, svc)
	registerListMonthTool(srv, svc)
	registerShowMonthTool(srv, svc)
}

func dateArg(description string) mcp.ToolOption {
	return mcp.WithString("date",
		mcp.Required(),
		mcp.Description(description),
	)
}

func registerGetEntryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_entry",
		mcp.WithDescription("Fetch the diary entry for a date."),
		dateArg("Date as YYYY-MM-DD, or today, yesterday, tomorrow."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, err := request.RequireString("date")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		date, err := svc.ParseDate(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		dto, err := svc.Entry(ctx, date)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if dto == nil {
			return toJSONResult(map[string]any{
				"date":  date.String(),
				"found": false,
			})
		}
		return toJSONResult(map[string]any{
			"found": true,
			"entry": dto,
		})
	})
}

func registerSaveEntryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"save_entry",
		mcp.WithDescription("Replace the diary entry for a date. Blank content deletes the entry."),
		dateArg("Date as YYYY-MM-DD, or today, yesterday, tomorrow."),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Full plain-text content of the entry."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Date    string `json:"date"`
			Content string `json:"content"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		date, err := svc.ParseDate(args.Date)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		res, err := svc.Save(ctx, date, args.Content)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(res)
	})
}

func registerDeleteEntryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"delete_entry",
		mcp.WithDescription("Delete the diary entry for a date."),
		dateArg("Date as YYYY-MM-DD, or today, yesterday, tomorrow."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, err := request.RequireString("date")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		date, err := svc.ParseDate(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		res, err := svc.Delete(ctx, date)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(res)
	})
}

func registerListMonthTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_month",
		mcp.WithDescription("List the diary entries of a month in date order."),
		mcp.WithString("month",
			mcp.Description("Month as YYYY-MM. Defaults to the current month."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		year, month, err := svc.ParseMonth(request.GetString("month", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		entries, err := svc.ListMonth(ctx, year, month)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"month":   fmt.Sprintf("%04d-%02d", year, int(month)),
			"count":   len(entries),
			"entries": entries,
		})
	})
}

func registerShowMonthTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"show_month",
		mcp.WithDescription("Show the Monday-first calendar grid of a month, marking today and days with entries."),
		mcp.WithString("month",
			mcp.Description("Month as YYYY-MM. Defaults to the current month."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		year, month, err := svc.ParseMonth(request.GetString("month", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		grid, err := svc.Month(ctx, year, month)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(grid)
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
