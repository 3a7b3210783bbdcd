package lib

import "testing"

func TestLongestCommonPath(t *testing.T) {
	tests := []struct {
		files  []string
		want   string
		wantOk bool
	}{
		{nil, "", false},
		{[]string{"/packages-a/src/index.ts"}, "/packages-a/src", true},
		{[]string{"/packages-a/src/index.ts", "/packages-a/src/utils/index.ts"}, "/packages-a/src", true},
		{[]string{"/packages-a/src/a/index.ts", "/packages-a/src/b/index.ts"}, "/packages-a/src", true},
		{[]string{"/packages-a/src/index.ts", "/packages-b/src/index.ts"}, "", false},
		{[]string{"/index.ts"}, "", false},
		{[]string{"D:/packages-a/src/index.ts", "D:/packages-a/src/utils/index.ts"}, "D:/packages-a/src", true},
		{[]string{`D:\packages-a\src\index.ts`, `D:\packages-a\lib\index.ts`}, "D:/packages-a", true},
		{[]string{"C:/a/index.ts", "C:/b/index.ts"}, "", false},
		{[]string{"/Src/index.ts", "/src/index.ts"}, "", false},
	}
	for _, tt := range tests {
		got, ok := LongestCommonPath(tt.files)
		if got != tt.want || ok != tt.wantOk {
			t.Errorf("LongestCommonPath(%q) = %q, %v, want %q, %v", tt.files, got, ok, tt.want, tt.wantOk)
		}
	}
}
