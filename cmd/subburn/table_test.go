package main

import "testing"

func TestRenderPlainAlignsColumns(t *testing.T) {
	got := renderPlain(
		[]string{"ID", "PROGRESS"},
		[][]string{
			{"job-1", "5%"},
			{"job-22", "100%"},
		},
		[]columnAlignment{alignLeft, alignRight},
	)
	want := "ID      PROGRESS\n" +
		"job-1         5%\n" +
		"job-22      100%"
	if got != want {
		t.Fatalf("plain table:\n%q\nwant:\n%q", got, want)
	}
}

func TestRenderPlainOmitsTrailingPadding(t *testing.T) {
	got := renderPlain(
		[]string{"ID", "STATUS"},
		[][]string{{"job-1", "done"}},
		[]columnAlignment{alignLeft, alignLeft},
	)
	want := "ID     STATUS\n" +
		"job-1  done"
	if got != want {
		t.Fatalf("plain table:\n%q\nwant:\n%q", got, want)
	}
}

func TestRenderPlainToleratesShortRows(t *testing.T) {
	got := renderPlain(
		[]string{"ID", "STATUS", "PROGRESS"},
		[][]string{{"job-1"}},
		nil,
	)
	want := "ID     STATUS  PROGRESS\n" +
		"job-1"
	if got != want {
		t.Fatalf("plain table:\n%q\nwant:\n%q", got, want)
	}
}
