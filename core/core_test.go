package core

import (
	"bytes"
	"encoding/base64"
	"net/mail"
	"reflect"
	"strings"
	"testing"
	"testing/fstest"
)

func TestParseAddressList(t *testing.T) {
	tests := []struct {
		in   string
		want []mail.Address
	}{
		{"", nil},
		{" , ", nil},
		{"a@x.test", []mail.Address{{Address: "a@x.test"}}},
		{"Registrar <r@x.test>, not an address ,b@x.test", []mail.Address{
			{Name: "Registrar", Address: "r@x.test"},
			{Address: "b@x.test"},
		}},
	}
	for _, tt := range tests {
		if got := parseAddressList(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseAddressList(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewConfig(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("TEST_GRADING_PASSPOLICY", " Percentage ")
	t.Setenv("TEST_GRADING_PRECISION", "1")
	t.Setenv("TEST_TRANSCRIPT_NOTIFYEMAILS", "r@x.test")

	conf := NewConfig()
	if conf.Env != "TEST" || !conf.TestMode {
		t.Errorf("NewConfig() Env = %s, TestMode = %v", conf.Env, conf.TestMode)
	}
	if conf.Grading.PassPolicy != PassPolicyPercentage {
		t.Errorf("PassPolicy = %q, want %q", conf.Grading.PassPolicy, PassPolicyPercentage)
	}
	if conf.Grading.Precision != 1 {
		t.Errorf("Precision = %d, want 1", conf.Grading.Precision)
	}
	if conf.Grading.RepeatPolicy != RepeatPolicyLatest {
		t.Errorf("RepeatPolicy = %q, want %q", conf.Grading.RepeatPolicy, RepeatPolicyLatest)
	}
	if len(conf.Transcript.NotifyEmails) != 1 || conf.Transcript.NotifyEmails[0].Address != "r@x.test" {
		t.Errorf("NotifyEmails = %v", conf.Transcript.NotifyEmails)
	}
}

func TestGradingConfig_Check(t *testing.T) {
	tests := []struct {
		precision int
		wantErr   bool
	}{
		{0, false},
		{2, false},
		{3, true},
		{-1, true},
	}
	for _, tt := range tests {
		conf := DefaultGradingConfig()
		conf.Precision = tt.precision
		if err := conf.Check(); (err != nil) != tt.wantErr {
			t.Errorf("Check(precision %d) error = %v, wantErr %v", tt.precision, err, tt.wantErr)
		}
	}
}

func TestHasDecimals(t *testing.T) {
	tests := []struct {
		x    float64
		want bool
	}{
		{82, true},
		{82.5, true},
		{82.35, true},
		{0.1 + 0.2, true},
		{82.355, false},
		{33.333333, false},
	}
	for _, tt := range tests {
		if got := HasDecimals(tt.x, StoredDecimals); got != tt.want {
			t.Errorf("HasDecimals(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestCleanOrderings(t *testing.T) {
	allowed := map[string]string{"cgpa": "t.cgpa"}
	got := CleanOrderings([]DBOrdering{{Field: "CGPA", Ascending: true}, {Field: "password"}}, allowed)
	want := []DBOrdering{{Field: "t.cgpa", Ascending: true}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CleanOrderings() = %v, want %v", got, want)
	}
	if s := got[0].String(); s != "t.cgpa ASC" {
		t.Errorf("String() = %q", s)
	}
}

func TestErrors(t *testing.T) {
	err := NewValidationError(NewError(ErrInvalidMarks, "bad"), FieldError{Field: "marks", Error: "bad"})
	if !IsKind(err, ErrNotFound, ErrInvalidMarks) {
		t.Errorf("IsKind(%v) = false", err)
	}
	if IsKind(err, ErrConflict) {
		t.Errorf("IsKind(%v, ErrConflict) = true", err)
	}
	if msg := NewValidationError(nil).Error(); msg != "validation failed" {
		t.Errorf("Error() = %q", msg)
	}
	if !IsShutdown(NewShutdownError("stop")) {
		t.Error("IsShutdown() = false")
	}
}

func TestValidator_Check(t *testing.T) {
	v := NewValidator()
	type input struct {
		Name  string  `json:"name" validate:"notblank"`
		Score float64 `json:"score" validate:"gte=0,lte=100"`
		Note  string  `json:"-" validate:"max=3"`
	}

	if err := v.Check(input{Name: "x", Score: 50}, nil); err != nil {
		t.Fatalf("Check() error = %v", err)
	}

	err := v.Check(input{Name: " ", Score: 101}, ErrInvalidMarks)
	vErr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("Check() error = %T, want *ValidationError", err)
	}
	if !IsKind(err, ErrInvalidMarks) {
		t.Errorf("Check() error is not of kind ErrInvalidMarks")
	}
	want := map[string]bool{"name": true, "score": true}
	if len(vErr.Fields) != len(want) {
		t.Fatalf("Fields = %v", vErr.Fields)
	}
	for _, f := range vErr.Fields {
		if !want[f.Field] {
			t.Errorf("unexpected field %q", f.Field)
		}
		if f.Field == "name" && f.Error != notBlankText {
			t.Errorf("name error = %q, want %q", f.Error, notBlankText)
		}
	}

	flds := v.StructFields(input{Name: "", Score: 1}, "entries[2]")
	if len(flds) != 1 || flds[0].Field != "entries[2].name" {
		t.Errorf("StructFields() = %v", flds)
	}
}

func TestEmailMessage_Render(t *testing.T) {
	fsys := fstest.MapFS{
		"email/_base.txt":     {Data: []byte(`{{define "base"}}{{template "content" .}}-- {{.AppName}}{{end}}{{template "base" .}}`)},
		"email/_base.gohtml":  {Data: []byte(`{{define "base"}}<p>{{template "content" .}}</p>{{end}}{{template "base" .}}`)},
		"email/hello.txt":     {Data: []byte(`{{define "content"}}Hello {{.Data.Name}} {{end}}`)},
		"email/hello.gohtml":  {Data: []byte(`{{define "content"}}Hello {{.Data.Name}}{{end}}`)},
		"email/ignored.md":    {Data: []byte(`nope`)},
		"email/sub/other.txt": {Data: []byte(`nope`)},
	}
	tmpls, err := ParseEmailTemplates(fsys, "email", "Results", true)
	if err != nil {
		t.Fatalf("ParseEmailTemplates() error = %v", err)
	}

	msg := &EmailMessage{TemplateName: "hello", TemplateData: map[string]string{"Name": "<Ada>"}}
	if err = msg.Render(tmpls); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if msg.TextContent != "Hello <Ada> -- Results" {
		t.Errorf("TextContent = %q", msg.TextContent)
	}
	if msg.HTMLContent != "<p>Hello &lt;Ada&gt;</p>" {
		t.Errorf("HTMLContent = %q", msg.HTMLContent)
	}

	// strict mode fails on missing keys
	msg = &EmailMessage{TemplateName: "hello", TemplateData: map[string]string{}}
	if err = msg.Render(tmpls); err == nil {
		t.Error("Render() error = nil, want missing key error")
	}

	msg = &EmailMessage{BodyStr: "plain", TemplateName: "unknown"}
	if err = msg.Render(tmpls); err != nil || msg.TextContent != "plain" || msg.HTMLContent != "" {
		t.Errorf("Render() = %q, %q, %v", msg.TextContent, msg.HTMLContent, err)
	}
}

func TestEmailMessage_Attach(t *testing.T) {
	msg := &EmailMessage{}
	if err := msg.Attach(strings.NewReader("a,b\n1,2\n"), "data.csv", "text/csv"); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	if err := msg.Attach(bytes.NewReader([]byte("<html><body></body></html>")), "page.html"); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	if !msg.HasAttachments() || len(msg.Attachments) != 2 {
		t.Fatalf("Attachments = %v", msg.Attachments)
	}

	decoded, err := base64.StdEncoding.DecodeString(msg.Attachments[0].Content.String())
	if err != nil || string(decoded) != "a,b\n1,2\n" {
		t.Errorf("decoded = %q, %v", decoded, err)
	}
	if ct := msg.Attachments[1].ContentType; !strings.HasPrefix(ct, "text/html") {
		t.Errorf("ContentType = %q, want text/html", ct)
	}
	if msg.HasRecipients() || msg.HasContent() {
		t.Error("message should have neither recipients nor content")
	}
}
