package textenc

import (
	"errors"
	"testing"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"

	errs "github.com/matzehuels/devinventory/pkg/errors"
)

func fixed(name string) Detector {
	return DetectorFunc(func([]byte) (string, error) { return name, nil })
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name       string
		detector   Detector
		raw        []byte
		want       string
		charset    string
		bestEffort bool
	}{
		{
			name:     "empty",
			detector: fixed("UTF-8"),
			raw:      nil,
			want:     "",
			charset:  "UTF-8",
		},
		{
			name:     "utf8",
			detector: fixed("UTF-8"),
			raw:      []byte("pandas==2.0.0\n"),
			want:     "pandas==2.0.0\n",
			charset:  "UTF-8",
		},
		{
			name:     "utf8 bom stripped",
			detector: fixed("windows-1252"),
			raw:      append([]byte{0xEF, 0xBB, 0xBF}, "numpy==1.24.0"...),
			want:     "numpy==1.24.0",
			charset:  "UTF-8",
		},
		{
			name:     "utf16le bom",
			detector: fixed("UTF-8"),
			raw:      []byte{0xFF, 0xFE, 'a', 0, '=', 0, '=', 0, '1', 0},
			want:     "a==1",
			charset:  "UTF-16LE",
		},
		{
			name:     "latin1 detected",
			detector: fixed("windows-1252"),
			raw:      []byte{'c', 'a', 'f', 0xE9},
			want:     "café",
			charset:  "windows-1252",
		},
		{
			name:       "unknown charset falls back",
			detector:   fixed("x-made-up"),
			raw:        []byte("six==1.16.0"),
			want:       "six==1.16.0",
			charset:    "UTF-8",
			bestEffort: true,
		},
		{
			name: "detector error falls back",
			detector: DetectorFunc(func([]byte) (string, error) {
				return "", errors.New("no guess")
			}),
			raw:        []byte("attrs"),
			want:       "attrs",
			charset:    "UTF-8",
			bestEffort: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoder()
			d.Detector = tt.detector

			got, err := d.Decode(tt.raw)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if got.Content != tt.want {
				t.Errorf("Content = %q, want %q", got.Content, tt.want)
			}
			if got.Charset != tt.charset {
				t.Errorf("Charset = %q, want %q", got.Charset, tt.charset)
			}
			if got.BestEffort != tt.bestEffort {
				t.Errorf("BestEffort = %v, want %v", got.BestEffort, tt.bestEffort)
			}
		})
	}
}

func TestDecodeChardet(t *testing.T) {
	got, err := NewDecoder().Decode([]byte("requests==2.31.0\nflask==3.0.0\n"))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got.Content != "requests==2.31.0\nflask==3.0.0\n" {
		t.Errorf("Content = %q", got.Content)
	}
}

func TestDecodeChardetGBK(t *testing.T) {
	manifest := "# 项目依赖说明：本文件列出数据分析项目需要安装的全部第三方库\n" +
		"# 版本号必须与生产环境保持一致，升级之前请先在测试环境中验证\n" +
		"pandas==2.0.0\n" +
		"# 数值计算和科学计算的基础库\n" +
		"numpy==1.24.0\n" +
		"# 网络请求库，用于从服务器下载数据\n" +
		"requests==2.31.0\n"
	raw, err := simplifiedchinese.GBK.NewEncoder().Bytes([]byte(manifest))
	if err != nil {
		t.Fatalf("encode GBK: %v", err)
	}

	got, err := NewDecoder().Decode(raw)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got.BestEffort {
		t.Errorf("BestEffort = true, charset %q", got.Charset)
	}
	if got.Charset != "GB-18030" {
		t.Errorf("Charset = %q, want GB-18030", got.Charset)
	}
	if got.Content != manifest {
		t.Errorf("Content = %q, want %q", got.Content, manifest)
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		want    encoding.Encoding
		wantErr bool
	}{
		{name: "GB-18030", want: simplifiedchinese.GB18030},
		{name: "gb18030", want: simplifiedchinese.GB18030},
		{name: "Shift_JIS"},
		{name: "EUC-KR"},
		{name: "Big5"},
		{name: "windows-1252", want: charmap.Windows1252},
		{name: " ISO-8859-1 "},
		{name: "IBM437", want: charmap.CodePage437},
		{name: "IBM420_ltr", wantErr: true},
		{name: "IBM420", wantErr: true},
		{name: "x-made-up", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lookup(tt.name)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Lookup(%q) = %v, want error", tt.name, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Lookup(%q) error = %v", tt.name, err)
			}
			if got == nil {
				t.Fatalf("Lookup(%q) returned nil encoding", tt.name)
			}
			if tt.want != nil && got != tt.want {
				t.Errorf("Lookup(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

type failing struct{}

func (failing) Transform(dst, src []byte, atEOF bool) (int, int, error) {
	return 0, 0, errors.New("cannot decode")
}
func (failing) Reset() {}

type failingEncoding struct{}

func (failingEncoding) NewDecoder() *encoding.Decoder {
	return &encoding.Decoder{Transformer: failing{}}
}
func (failingEncoding) NewEncoder() *encoding.Encoder {
	return &encoding.Encoder{Transformer: transform.Nop}
}

func TestDecodeFallbackFailure(t *testing.T) {
	d := &Decoder{
		Detector:     fixed("x-made-up"),
		Fallback:     failingEncoding{},
		FallbackName: "broken",
	}

	_, err := d.Decode([]byte("pandas"))
	if !errs.Is(err, errs.ErrCodeDecode) {
		t.Fatalf("Decode() error = %v, want %s", err, errs.ErrCodeDecode)
	}
}
