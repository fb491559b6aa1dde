package source

import (
	"context"
	"reflect"
	"strings"
	"testing"
)

func TestText_Pages(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  [][]string
	}{
		{
			name:  "single page",
			input: "Menn 15 km\n101   Ola   Hamar IL NTG   0:01:30\n",
			want:  [][]string{{"Menn 15 km", "101   Ola   Hamar IL NTG   0:01:30"}},
		},
		{
			name:  "crlf",
			input: "a\r\nb\r\n",
			want:  [][]string{{"a", "b"}},
		},
		{
			name:  "form feed pages",
			input: "a\nb\n\fc\n\f",
			want:  [][]string{{"a", "b"}, {"c"}},
		},
		{
			name:  "blank lines kept",
			input: "a\n\nb",
			want:  [][]string{{"a", "", "b"}},
		},
		{
			name:  "bom stripped",
			input: "\xEF\xBB\xBFa",
			want:  [][]string{{"a"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages, err := NewText(strings.NewReader(tt.input)).Pages(context.Background())
			if err != nil {
				t.Fatalf("Pages: %v", err)
			}
			var got [][]string
			for i, p := range pages {
				if p.Index != i+1 {
					t.Errorf("page %d Index = %d", i, p.Index)
				}
				got = append(got, p.Lines)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestText_Windows1252(t *testing.T) {
	pages, err := NewText(strings.NewReader("Bj\xf8rn  \xc5s IL")).Pages(context.Background())
	if err != nil {
		t.Fatalf("Pages: %v", err)
	}
	if got := pages[0].Lines[0]; got != "Bjørn  Ås IL" {
		t.Errorf("got %q", got)
	}
}
