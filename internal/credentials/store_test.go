package credentials

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"CornTicker/internal/model"
)

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), ".env"))
	c, err := s.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *c != (model.Credentials{}) {
		t.Errorf("expected empty credentials, got %+v", *c)
	}
	if c.CanRefresh() {
		t.Error("empty credentials must not be refreshable")
	}
}

func TestLoad_ReadsKeyValueLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "APP_KEY=abc\nAPP_SECRET=s3cr3t\nACCESS_TOKEN=I0.b2F1dGg=@\nREFRESH_TOKEN=rt-1\nOTHER=ignored\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	c, err := NewStore(path).Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := model.Credentials{AppKey: "abc", AppSecret: "s3cr3t", AccessToken: "I0.b2F1dGg=@", RefreshToken: "rt-1"}
	if *c != want {
		t.Errorf("got %+v, want %+v", *c, want)
	}
}

func TestSave_RewritesAllFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("APP_KEY=old\nSTALE=1\n"), 0600); err != nil {
		t.Fatal(err)
	}
	s := NewStore(path)
	c := &model.Credentials{AppKey: "k", AppSecret: "s", AccessToken: "a", RefreshToken: "r"}
	if err := s.Save(c); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "APP_KEY=k\nAPP_SECRET=s\nACCESS_TOKEN=a\nREFRESH_TOKEN=r\n"
	if string(data) != want {
		t.Errorf("file content:\n%s\nwant:\n%s", data, want)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if *loaded != *c {
		t.Errorf("reloaded %+v, want %+v", *loaded, *c)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("expected temp file to be cleaned up, dir has %d entries", len(entries))
	}
}

func TestSave_OpaqueValuesRoundTrip(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), ".env"))
	tests := []model.Credentials{
		{AppKey: "key #not-a-comment", AppSecret: "$HOME", AccessToken: "I0.abc #frag", RefreshToken: "'quoted"},
		{AppKey: `"dq`, AppSecret: "s=e=c", AccessToken: "007", RefreshToken: `tail\`},
		{AppKey: "  padded  ", AppSecret: "`tick`", AccessToken: "${VAR}", RefreshToken: ""},
	}
	for _, c := range tests {
		if err := s.Save(&c); err != nil {
			t.Fatalf("save %+v: %v", c, err)
		}
		got, err := s.Load()
		if err != nil {
			t.Fatalf("load after saving %+v: %v", c, err)
		}
		if *got != c {
			t.Errorf("round trip changed values:\n got %+v\nwant %+v", *got, c)
		}
	}
}

func TestSave_RejectsLineBreaks(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	s := NewStore(path)
	err := s.Save(&model.Credentials{AppKey: "k", AppSecret: "s", AccessToken: "a\nREFRESH_TOKEN=x", RefreshToken: "r"})
	if !errors.Is(err, ErrMultiline) {
		t.Fatalf("expected ErrMultiline, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file must not be written when a value is rejected")
	}
}

func TestLoad_FirstOccurrenceAndCRLF(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "APP_KEY=first\r\nAPP_KEY=second\r\nAPP_SECRET=s\r\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	c, err := NewStore(path).Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.AppKey != "first" || c.AppSecret != "s" {
		t.Errorf("unexpected credentials %+v", *c)
	}
}
