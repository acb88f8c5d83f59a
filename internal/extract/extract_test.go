package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/thejatinbaghel/JobReady-AI/internal/model"
)

func makeDOCX(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	w.Write([]byte(body))
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestRegistry_PlainText(t *testing.T) {
	r := NewRegistry()
	doc := model.Document{Name: "cv.TXT", Data: append([]byte{0xEF, 0xBB, 0xBF}, "  Jane Doe\nEngineer \n"...)}

	text, err := r.ExtractText(context.Background(), doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Jane Doe\nEngineer" {
		t.Errorf("text = %q", text)
	}
}

func TestRegistry_InvalidUTF8(t *testing.T) {
	r := NewRegistry()
	_, err := r.ExtractText(context.Background(), model.Document{Name: "cv.txt", Data: []byte{0xff, 0xfe, 0x00}})
	if err == nil {
		t.Fatal("expected error for invalid UTF-8")
	}
}

func TestRegistry_Unsupported(t *testing.T) {
	r := NewRegistry()
	_, err := r.ExtractText(context.Background(), model.Document{Name: "cv.odt", Data: []byte("x")})
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("err = %v, want ErrUnsupported", err)
	}
	if r.Supports("cv.odt") {
		t.Error("Supports(cv.odt) = true")
	}
	if !r.Supports("CV.Docx") {
		t.Error("Supports(CV.Docx) = false")
	}
}

func TestRegistry_EmptyDocument(t *testing.T) {
	r := NewRegistry()
	_, err := r.ExtractText(context.Background(), model.Document{Name: "cv.txt", Data: []byte(" \n\t ")})
	if !errors.Is(err, ErrNoText) {
		t.Errorf("err = %v, want ErrNoText", err)
	}
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	r.Register("rtf", Stub{})

	text, err := r.ExtractText(context.Background(), model.Document{Name: "cv.rtf"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != StubText {
		t.Errorf("text = %q", text)
	}
}

func TestDOCX_Paragraphs(t *testing.T) {
	body := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Jane</w:t></w:r><w:r><w:t xml:space="preserve"> Doe</w:t></w:r></w:p>
<w:p><w:r><w:t>Skills:</w:t><w:tab/><w:t>Go &amp; SQL</w:t></w:r></w:p>
</w:body>
</w:document>`
	text, err := DOCX{}.ExtractText(context.Background(), model.Document{Name: "cv.docx", Data: makeDOCX(t, body)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Jane Doe\nSkills:\tGo & SQL\n"
	if text != want {
		t.Errorf("text = %q, want %q", text, want)
	}
}

func TestDOCX_NotAZip(t *testing.T) {
	if _, err := (DOCX{}).ExtractText(context.Background(), model.Document{Name: "cv.docx", Data: []byte("plain")}); err == nil {
		t.Fatal("expected error for non-zip data")
	}
}

func TestDOCX_MissingBody(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	zw.Create("word/styles.xml")
	zw.Close()

	if _, err := (DOCX{}).ExtractText(context.Background(), model.Document{Name: "cv.docx", Data: buf.Bytes()}); err == nil {
		t.Fatal("expected error when word/document.xml is missing")
	}
}

func TestPDF_InvalidData(t *testing.T) {
	if _, err := (PDF{}).ExtractText(context.Background(), model.Document{Name: "cv.pdf", Data: []byte("not a pdf")}); err == nil {
		t.Fatal("expected error for invalid PDF")
	}
}

func TestStub_ReturnsPlaceholder(t *testing.T) {
	text, err := Stub{}.ExtractText(context.Background(), model.Document{Name: "anything.bin"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != StubText {
		t.Errorf("text = %q", text)
	}
}

func TestStub_DelayHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Stub{Delay: time.Hour}.ExtractText(ctx, model.Document{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
