package api

import (
	"strings"
	"testing"
)

func TestValidateRegister(t *testing.T) {
	valid := RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "secret1"}

	tests := []struct {
		name      string
		mutate    func(*RegisterRequest)
		wantParam string
	}{
		{"valid", func(r *RegisterRequest) {}, ""},
		{"missing name", func(r *RegisterRequest) { r.Name = "  " }, "name"},
		{"name too long", func(r *RegisterRequest) { r.Name = strings.Repeat("a", MaxNameLength+1) }, "name"},
		{"missing email", func(r *RegisterRequest) { r.Email = "" }, "email"},
		{"email without at", func(r *RegisterRequest) { r.Email = "alice.example.com" }, "email"},
		{"email trailing at", func(r *RegisterRequest) { r.Email = "alice@" }, "email"},
		{"short password", func(r *RegisterRequest) { r.Password = "abc" }, "password"},
		{"long password", func(r *RegisterRequest) { r.Password = strings.Repeat("p", MaxPasswordLength+1) }, "password"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := valid
			tc.mutate(&req)
			err := ValidateRegister(&req)
			if tc.wantParam == "" {
				if err != nil {
					t.Fatalf("ValidateRegister() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("ValidateRegister() = nil, want error")
			}
			if err.Type != ErrorTypeValidation {
				t.Errorf("Type = %q, want %q", err.Type, ErrorTypeValidation)
			}
			if err.Param != tc.wantParam {
				t.Errorf("Param = %q, want %q", err.Param, tc.wantParam)
			}
		})
	}
}

func TestValidateDocumentUpdate(t *testing.T) {
	title := "New title"
	empty := "   "
	content := "body"

	tests := []struct {
		name    string
		req     DocumentUpdateRequest
		wantErr bool
	}{
		{"both nil", DocumentUpdateRequest{}, true},
		{"title only", DocumentUpdateRequest{Title: &title}, false},
		{"content only", DocumentUpdateRequest{Content: &content}, false},
		{"blank title", DocumentUpdateRequest{Title: &empty}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateDocumentUpdate(&tc.req)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ValidateDocumentUpdate() = %v, wantErr=%v", err, tc.wantErr)
			}
		})
	}
}

func TestValidateAgent(t *testing.T) {
	tests := []struct {
		name    string
		req     AgentRequest
		wantErr bool
	}{
		{"web search", AgentRequest{Query: "golang", Action: AgentActionWebSearch}, false},
		{"crawl", AgentRequest{Query: "https://example.com", Action: AgentActionCrawlURL}, false},
		{"empty query", AgentRequest{Query: " ", Action: AgentActionWebSearch}, true},
		{"unknown action", AgentRequest{Query: "golang", Action: "summarize"}, true},
		{"missing action", AgentRequest{Query: "golang"}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateAgent(&tc.req)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ValidateAgent() = %v, wantErr=%v", err, tc.wantErr)
			}
		})
	}
}

func TestValidateChat(t *testing.T) {
	if err := ValidateChat(&ChatRequest{Prompt: "hi", SessionID: "default_session"}); err != nil {
		t.Fatalf("ValidateChat() = %v, want nil", err)
	}
	if err := ValidateChat(&ChatRequest{Prompt: "\t\n"}); err == nil {
		t.Fatal("ValidateChat() accepted blank prompt")
	}
	if err := ValidateChat(&ChatRequest{Prompt: "hi", SessionID: strings.Repeat("s", MaxSessionLabel+1)}); err == nil {
		t.Fatal("ValidateChat() accepted oversized session label")
	}
}
