package render

import (
	"reflect"
	"testing"
)

func TestConcatList(t *testing.T) {
	got := concatList([]string{"/work/v_seg_1.mp4", "/work/v_seg_2.mp4"})
	want := "file '/work/v_seg_1.mp4'\nfile '/work/v_seg_2.mp4'\n"
	if got != want {
		t.Fatalf("concatList = %q, want %q", got, want)
	}
}

func TestConcatListEscapesQuotes(t *testing.T) {
	got := concatList([]string{"/work/it's here.mp4"})
	want := "file '/work/it'\\''s here.mp4'\n"
	if got != want {
		t.Fatalf("concatList = %q, want %q", got, want)
	}
}

func TestConcatArgs(t *testing.T) {
	got := concatArgs("/work/concat_v.txt", "/work/main.mp4")
	want := []string{
		"-y", "-loglevel", "error",
		"-f", "concat", "-safe", "0",
		"-i", "/work/concat_v.txt",
		"-c", "copy",
		"/work/main.mp4",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("concatArgs = %v, want %v", got, want)
	}
}
