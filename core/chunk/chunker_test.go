package chunk

import (
	"reflect"
	"testing"
)

func TestSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "empty", text: "", want: nil},
		{name: "single without terminator", text: "Hola mundo", want: []string{"Hola mundo"}},
		{
			name: "mixed terminators",
			text: "Capítulo 1. ¿Vienes? ¡Sí! Vamos.",
			want: []string{"Capítulo 1.", "¿Vienes?", "¡Sí!", "Vamos."},
		},
		{name: "decimal stays together", text: "Mide 3.5 metros. Fin.", want: []string{"Mide 3.5 metros.", "Fin."}},
		{name: "terminator run", text: "¿Qué?! No.", want: []string{"¿Qué?!", "No."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sentences(tt.text); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Sentences(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestChunk(t *testing.T) {
	c := New(4)
	got := c.Chunk("Uno dos. Tres cuatro. Cinco seis siete ocho nueve. Diez.")
	want := [][]string{
		{"Uno dos.", "Tres cuatro."},
		{"Cinco seis siete ocho nueve."},
		{"Diez."},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Chunk() = %q, want %q", got, want)
	}

	if got := New(0).Chunk("   "); got != nil {
		t.Errorf("Chunk(blank) = %q, want nil", got)
	}
	if New(0).MaxWords != 120 {
		t.Errorf("default MaxWords = %d, want 120", New(0).MaxWords)
	}
}
