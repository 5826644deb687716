package dictscot

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

func newTestInstrumenter(t *testing.T) *instrumenter {
	ins, err := newInstrumenter("test", noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)

	return ins
}

func newTestLogger() *sLogger {
	return NewSLogger(log.New(os.Stdout, "", log.LstdFlags), false)
}

func TestNewPartitioner(t *testing.T) {
	tests := map[string]struct {
		partitionCount int
		expectedError  string
	}{
		"InvalidZeroPartitions": {
			partitionCount: 0,
			expectedError:  "A partition router can only work with a partitionCount that is a power of two but was [0]",
		},
		"ValidOnePartition": {
			partitionCount: 1,
			expectedError:  "",
		},
		"ValidTwoPartitions": {
			partitionCount: 2,
			expectedError:  "",
		},
		"Invalid3Partitions": {
			partitionCount: 3,
			expectedError:  "A partition router can only work with a partitionCount that is a power of two but was [3]",
		},
		"Valid4Partitions": {
			partitionCount: 4,
			expectedError:  "",
		},
		"Invalid5Partitions": {
			partitionCount: 5,
			expectedError:  "A partition router can only work with a partitionCount that is a power of two but was [5]",
		},
		"Valid16Partitions": {
			partitionCount: 16,
			expectedError:  "",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			pr, err := newPartitionRouter(tc.partitionCount, 1, nil, newTestInstrumenter(t))

			if tc.expectedError == "" {
				assert.NoError(t, err)
				assert.NotNil(t, pr)
				assert.Len(t, pr.eventQueues, tc.partitionCount)
			} else {
				assert.EqualError(t, err, tc.expectedError)
			}
		})
	}
}

func TestConsistentHashing(t *testing.T) {
	for i := 0; i < 16; i++ {
		partitionCount := int(math.Pow(float64(2), float64(i)))
		name := fmt.Sprintf("With_%d_Partitions", partitionCount)

		t.Run(name, func(t *testing.T) {
			pr, _ := newPartitionRouter(partitionCount, 1, newTestLogger(), newTestInstrumenter(t))
			partition := pr.partitionForKey("general")

			for i := 0; i < 100; i++ {
				assert.Equal(t, partition, pr.partitionForKey("general"))
			}
		})
	}
}

// newChannelIDs generates count channel ids shaped like slack channel ids (C followed by 10 uppercase
// alphanumeric characters)
func newChannelIDs(count int) (ids []string) {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	r := rand.New(rand.NewSource(42))

	ids = make([]string, 0, count)
	for i := 0; i < count; i++ {
		id := make([]byte, 11)
		id[0] = 'C'
		for j := 1; j < len(id); j++ {
			id[j] = alphabet[r.Intn(len(alphabet))]
		}

		ids = append(ids, string(id))
	}

	return ids
}

func TestHashDistribution(t *testing.T) {
	keys := newChannelIDs(500000)
	keyCount := len(keys)

	for i := 0; i < 10; i++ {
		partitionCount := int(math.Pow(float64(2), float64(i)))
		name := fmt.Sprintf("With_%d_Partitions", partitionCount)
		partitionHitCount := make([]int, partitionCount)

		t.Run(name, func(t *testing.T) {
			pr, _ := newPartitionRouter(partitionCount, 1, NewSLogger(log.New(os.Stdout, "", 0), false), newTestInstrumenter(t))

			for _, key := range keys {
				partition := pr.partitionForKey(key)
				partitionHitCount[partition] = partitionHitCount[partition] + 1
			}

			// Hits per partition follow a binomial distribution. Allow six standard deviations
			p := 1.0 / float64(partitionCount)
			expectedHitsPerPartition := float64(keyCount) * p
			deviationTolerance := 6.0 * math.Sqrt(float64(keyCount)*p*(1-p))
			for partition, hitCount := range partitionHitCount {
				assert.InDeltaf(t, expectedHitsPerPartition, hitCount, deviationTolerance, "All partitions should have received about [%.1f] hits but partition [%d] got [%d]", expectedHitsPerPartition, partition, hitCount)
			}
		})
	}
}

func TestHashMask(t *testing.T) {
	for i := 0; i < 16; i++ {
		partitionCount := int(math.Pow(float64(2), float64(i)))
		name := fmt.Sprintf("With_%d_Partitions", partitionCount)

		t.Run(name, func(t *testing.T) {
			mask := hashMask(partitionCount)
			assert.Equal(t, partitionCount-1, mask)
		})
	}
}

func TestEventsOfAChannelAreProcessedInOrder(t *testing.T) {
	pr, err := newPartitionRouter(4, 2, newTestLogger(), newTestInstrumenter(t))
	require.NoError(t, err)

	var mu sync.Mutex
	processed := make(map[string][]string)

	pr.start(func(e Event) {
		mu.Lock()
		defer mu.Unlock()

		processed[e.PartitionKey()] = append(processed[e.PartitionKey()], e.EventID())
	})

	for i := 0; i < 50; i++ {
		pr.routeEvent(&IncomingMessage{ID: fmt.Sprintf("%d", i), ChannelID: "general"})
		pr.routeEvent(&CommandInvocation{ID: fmt.Sprintf("%d", i), ChannelID: "random"})
	}

	pr.stop()

	require.Len(t, processed["general"], 50)
	require.Len(t, processed["random"], 50)
	for i := 0; i < 50; i++ {
		assert.Equal(t, fmt.Sprintf("message:%d", i), processed["general"][i])
		assert.Equal(t, fmt.Sprintf("command:%d", i), processed["random"][i])
	}
}

func TestStopWaitsForQueuedEvents(t *testing.T) {
	pr, err := newPartitionRouter(1, 10, newTestLogger(), newTestInstrumenter(t))
	require.NoError(t, err)

	count := 0
	pr.start(func(e Event) {
		count = count + 1
	})

	for i := 0; i < 10; i++ {
		pr.routeEvent(&IncomingMessage{ID: fmt.Sprintf("%d", i), ChannelID: "general"})
	}

	pr.stop()

	assert.Equal(t, 10, count)
}
