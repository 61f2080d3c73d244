package envutil

import (
	"reflect"
	"testing"
	"time"
)

func TestAccessorsFallBackOnGarbage(t *testing.T) {
	t.Setenv("TA_INT", "nope")
	t.Setenv("TA_BOOL", "maybe")
	t.Setenv("TA_DUR", "soon")
	if got := Int("TA_INT", 7); got != 7 {
		t.Fatalf("Int fallback = %d", got)
	}
	if got := Bool("TA_BOOL", true); !got {
		t.Fatalf("Bool fallback = %v", got)
	}
	if got := Duration("TA_DUR", time.Minute); got != time.Minute {
		t.Fatalf("Duration fallback = %v", got)
	}
}

func TestDurationAcceptsSeconds(t *testing.T) {
	t.Setenv("TA_DUR", "45")
	if got := Duration("TA_DUR", 0); got != 45*time.Second {
		t.Fatalf("got %v", got)
	}
	t.Setenv("TA_DUR", "2m")
	if got := Duration("TA_DUR", 0); got != 2*time.Minute {
		t.Fatalf("got %v", got)
	}
}

func TestList(t *testing.T) {
	t.Setenv("TA_LIST", " a, ,b ,c")
	if got := List("TA_LIST", nil); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("got %v", got)
	}
	t.Setenv("TA_LIST", " , ")
	if got := List("TA_LIST", []string{"x"}); !reflect.DeepEqual(got, []string{"x"}) {
		t.Fatalf("got %v", got)
	}
}
