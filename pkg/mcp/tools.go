package mcp

import "github.com/mark3labs/mcp-go/mcp"

func compileComponentTool() mcp.Tool {
	return mcp.NewTool("compile_component",
		mcp.WithDescription("Compile a .ux component source into a JavaScript module. "+
			"Returns the module and its reactive variables, or every structural error found."),
		mcp.WithString("source", mcp.Required(),
			mcp.Description("Full component source: 'name: <name>;' followed by style, script and one template root")),
		mcp.WithString("source_id",
			mcp.Description("Name used for the source in error messages (default: component.ux)")),
		mcp.WithBoolean("include_artifact",
			mcp.Description("Also return the lowered instruction lists")),
	)
}

func scopeCSSTool() mcp.Tool {
	return mcp.NewTool("scope_css",
		mcp.WithDescription("Rewrite style sheet selectors with the component instance marker [id]."),
		mcp.WithString("css", mcp.Required(), mcp.Description("Style sheet body")),
		mcp.WithBoolean("scoped",
			mcp.Description("Attach the marker to each compound selector instead of prefixing a descendant rule")),
	)
}

func listVariablesTool() mcp.Tool {
	return mcp.NewTool("list_variables",
		mcp.WithDescription("List the bracketed variables and i18n keys a component template uses."),
		mcp.WithString("source", mcp.Required(), mcp.Description("Full component source")),
	)
}

func analyzeScriptTool() mcp.Tool {
	return mcp.NewTool("analyze_script",
		mcp.WithDescription("Summarize which data keys a component script reads and writes."),
		mcp.WithString("script", mcp.Required(), mcp.Description("Script body")),
		mcp.WithString("lang", mcp.Description("js (default) or ts")),
	)
}

func compilerStatsTool() mcp.Tool {
	return mcp.NewTool("compiler_stats",
		mcp.WithDescription("Compile and cache counters of this server."),
	)
}
