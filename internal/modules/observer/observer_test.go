package observer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestObserversNotifyInOrder(t *testing.T) {
	var got []string
	var s Subject = Observers{
		Func(func(event string, data interface{}) { got = append(got, "a:"+event) }),
		Func(func(event string, data interface{}) { got = append(got, "b:"+event) }),
	}
	s.Notify("job_end", nil)
	require.Equal(t, []string{"a:job_end", "b:job_end"}, got)
}
