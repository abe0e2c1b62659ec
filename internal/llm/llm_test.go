package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindToolInput(t *testing.T) {
	resp := &Response{Blocks: []Block{
		{Type: BlockText, Text: "Here is the report."},
		{Type: BlockToolUse, Name: "other_tool", Input: json.RawMessage(`{"x":1}`)},
		{Type: BlockToolUse, Name: "generate_policy_report", Input: json.RawMessage(`{"findings":[]}`)},
		{Type: BlockToolUse, Name: "generate_policy_report", Input: json.RawMessage(`{"findings":[{}]}`)},
	}}

	in, ok := FindToolInput(resp, "generate_policy_report")
	assert.True(t, ok)
	assert.JSONEq(t, `{"findings":[]}`, string(in))

	_, ok = FindToolInput(resp, "generate_policy_guidance")
	assert.False(t, ok)

	_, ok = FindToolInput(&Response{Blocks: []Block{{Type: BlockText, Name: "generate_policy_report"}}}, "generate_policy_report")
	assert.False(t, ok, "text blocks never match")

	_, ok = FindToolInput(nil, "generate_policy_report")
	assert.False(t, ok)
}
