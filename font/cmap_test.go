package font

import "testing"

const toUnicode = `/CIDInit /ProcSet findresource begin
12 dict begin
begincmap
/CMapName /Adobe-Identity-UCS def
1 begincodespacerange
<0000> <FFFF>
endcodespacerange
3 beginbfchar
<0003> <0020> <0011> <002E>
<0024> <00E6>
endbfchar
2 beginbfrange
<0030> <0039> <0030>
<0040> <0042> [<0041> <00C5> <FB01>]
endbfrange
1 beginbfchar
<0050> <D83DDE00>
endbfchar
endcmap
CMapName currentdict /CMap defineresource pop
end
end`

func TestParseCMap(t *testing.T) {
	cm, err := ParseCMap([]byte(toUnicode))
	if err != nil {
		t.Fatalf("ParseCMap: %v", err)
	}

	tests := []struct {
		code uint32
		want string
		ok   bool
	}{
		{0x03, " ", true},
		{0x11, ".", true},
		{0x24, "æ", true},
		{0x30, "0", true},
		{0x35, "5", true},
		{0x39, "9", true},
		{0x40, "A", true},
		{0x41, "Å", true},
		{0x42, "ﬁ", true},
		{0x50, "😀", true},
		{0x3A, "", false},
		{0x99, "", false},
	}

	for _, tt := range tests {
		got, ok := cm.Lookup(tt.code)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Lookup(%#x) = %q, %v; want %q, %v", tt.code, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseCMap_Empty(t *testing.T) {
	if _, err := ParseCMap([]byte("begincmap\nendcmap")); err == nil {
		t.Error("expected error for a cmap without mappings")
	}
}

func TestCMap_Nil(t *testing.T) {
	var cm *CMap
	if _, ok := cm.Lookup(0x41); ok {
		t.Error("nil cmap should map nothing")
	}
	if cm.Len() != 0 {
		t.Error("nil cmap should be empty")
	}
}
