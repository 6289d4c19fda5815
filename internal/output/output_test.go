package output

import (
	"bytes"
	"context"
	"os"
	"testing"
)

func TestFromContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if p := FromContext(WithPrinter(context.Background(), &buf)); p.Writer() != &buf {
		t.Error("FromContext did not return the attached printer")
	}
	if p := FromContext(context.Background()); p.Writer() != os.Stdout {
		t.Error("FromContext without printer should write to os.Stdout")
	}
}

func TestPrinter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		write func(*Printer) error
		want  string
	}{
		{
			name:  "Print",
			write: func(p *Printer) error { p.Print("feature-x", " ", "api"); return nil },
			want:  "feature-x api",
		},
		{
			name:  "Printf",
			write: func(p *Printer) error { p.Printf("%d repositories", 3); return nil },
			want:  "3 repositories",
		},
		{
			name:  "Println",
			write: func(p *Printer) error { p.Println("api", "web"); return nil },
			want:  "api web\n",
		},
		{
			name:  "JSON",
			write: func(p *Printer) error { return p.JSON(map[string][]string{"feature-a": {"api", "web"}}) },
			want:  "{\n  \"feature-a\": [\n    \"api\",\n    \"web\"\n  ]\n}\n",
		},
		{
			name:  "empty JSON list",
			write: func(p *Printer) error { return p.JSON([]string{}) },
			want:  "[]\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			if err := tt.write(New(&buf)); err != nil {
				t.Fatalf("write failed: %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("wrote %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrinter_JSONError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := New(&buf).JSON(make(chan int)); err == nil {
		t.Error("JSON(chan) = nil error, want error")
	}
}
