package security

import "testing"

func TestTextSanitizer(t *testing.T) {
	s := NewTextSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "プレーンテキストはそのまま",
			input: "京都の桜を見に行く",
			want:  "京都の桜を見に行く",
		},
		{
			name:  "scriptタグを除去",
			input: `<script>alert("xss")</script>観光`,
			want:  "観光",
		},
		{
			name:  "書式タグも除去",
			input: "<b>重要</b>な予定",
			want:  "重要な予定",
		},
		{
			name:  "イベント属性付きタグを除去",
			input: `<img src="x" onerror="alert(1)">メモ`,
			want:  "メモ",
		},
		{
			name:  "空文字列",
			input: "",
			want:  "",
		},
		{
			name:  "前後の空白を除去",
			input: "  温泉巡り  ",
			want:  "温泉巡り",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Sanitize(tt.input)
			if got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTextSanitizer_Idempotent(t *testing.T) {
	s := NewTextSanitizer()
	input := `<p>観光<script>x</script></p>`

	once := s.Sanitize(input)
	twice := s.Sanitize(once)

	if once != twice {
		t.Errorf("Sanitize should be idempotent: %q != %q", once, twice)
	}
}
