package status

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadSnapshotsCounters(t *testing.T) {
	before := Read()

	TransportTimeouts.Add(2)
	GetItemActions.Add(1)
	SelectActions.Add(3)

	after := Read()
	assert.Equal(t, before.TransportTimeouts+2, after.TransportTimeouts)
	assert.Equal(t, before.Actions.GetItem+1, after.Actions.GetItem)
	assert.Equal(t, before.Actions.Select+3, after.Actions.Select)
}

func TestAddBoxUsageAccumulatesConcurrently(t *testing.T) {
	before := TotalBoxUsage()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				AddBoxUsage(0.5)
			}
		}()
	}
	wg.Wait()

	assert.InDelta(t, before+400, TotalBoxUsage(), 1e-9)
}
