package apps

import (
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func TestStampToolUI(t *testing.T) {
	c := NewCatalog()
	app := testApp("table")
	app.ToolNames = []string{"show_table"}
	if err := c.Register(app); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	listResult := &mcp.ListToolsResult{
		Tools: []*mcp.Tool{
			{Name: "show_table"},
			{Name: "plain_tool"},
		},
	}
	stampToolUI(c, listResult)

	meta := listResult.Tools[0].Meta
	if meta == nil {
		t.Fatal("show_table has no _meta after stamping")
	}
	ui, ok := meta["ui"].(map[string]string)
	if !ok {
		t.Fatalf("_meta.ui has unexpected type %T", meta["ui"])
	}
	if ui["resourceUri"] != "ui://table" {
		t.Errorf("resourceUri = %q, want ui://table", ui["resourceUri"])
	}

	if listResult.Tools[1].Meta != nil {
		t.Errorf("plain_tool should be left unstamped, got %v", listResult.Tools[1].Meta)
	}
}

func TestStampToolUIPreservesMeta(t *testing.T) {
	c := NewCatalog()
	if err := c.Register(testApp("cards")); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	listResult := &mcp.ListToolsResult{
		Tools: []*mcp.Tool{
			{Name: "cards_tool", Meta: mcp.Meta{"other": "value"}},
		},
	}
	stampToolUI(c, listResult)

	meta := listResult.Tools[0].Meta
	if meta["other"] != "value" {
		t.Errorf("existing meta entry lost: %v", meta)
	}
	if _, ok := meta["ui"]; !ok {
		t.Error("_meta.ui not stamped alongside existing entries")
	}
}
