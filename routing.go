package dictscot

import (
	"context"
	"fmt"
	"hash"
	"hash/crc32"
	"math"
	"sync"
)

type partitionRouter struct {
	// Logger
	log *sLogger

	// eventQueues with partition keyed by the hash of the event partition key (its channel)
	// so that events of a channel are handled by the same work queue therefore ensuring
	// ordered processing of those events
	eventQueues []chan Event

	// workers tracks running partition workers so that stop can wait on in-flight events
	workers sync.WaitGroup

	// hash function to direct event processing to partitions
	hasher   hash.Hash32
	hashMask int

	*instrumenter
}

func newPartitionRouter(partitionCount int, queueBufferSize int, log *sLogger, instrumenter *instrumenter) (pr *partitionRouter, err error) {
	if !isPowerOfTwo(partitionCount) {
		return nil, fmt.Errorf("A partition router can only work with a partitionCount that is a power of two but was [%d]", partitionCount)
	}

	pr = new(partitionRouter)
	pr.eventQueues = make([]chan Event, partitionCount)
	for i := range pr.eventQueues {
		pr.eventQueues[i] = make(chan Event, queueBufferSize)
	}
	pr.hasher = crc32.NewIEEE()
	pr.hashMask = hashMask(partitionCount)
	pr.log = log
	pr.instrumenter = instrumenter

	return pr, nil
}

// start launches one worker per partition. Each worker processes the events of its queue sequentially
// until the queue is closed by stop
func (pr *partitionRouter) start(process func(e Event)) {
	for i, q := range pr.eventQueues {
		pr.workers.Add(1)

		go func(partition int, queue <-chan Event) {
			defer pr.workers.Done()

			for e := range queue {
				process(e)
			}

			pr.log.Debugf("Partition [%d] worker terminated", partition)
		}(i, q)
	}
}

// stop closes all partition queues and waits for workers to be done with the events already queued.
// routeEvent must not be called after stop
func (pr *partitionRouter) stop() {
	for _, q := range pr.eventQueues {
		close(q)
	}

	pr.workers.Wait()
}

// routeEvent routes the event processing to the correct partition based on its partition key to ensure
// that all events of a same channel are processed in order
func (pr *partitionRouter) routeEvent(e Event) {
	partition := pr.partitionForKey(e.PartitionKey())

	pr.log.Debugf("Dispatching event [%s] to partition [%d]", e.EventID(), partition)
	d := measure(func() {
		pr.eventQueues[partition] <- e
	})

	pr.dispatchLatencyMillis.Record(context.Background(), d.Milliseconds(), pr.attributes(eventType(e)))
}

// partitionForKey returns the partition index for a given partition key
func (pr *partitionRouter) partitionForKey(key string) (partition int) {
	pr.hasher.Reset()
	pr.hasher.Write([]byte(key))
	res := pr.hasher.Sum32()

	pr.log.Debugf("Hash [%d] calculated for [%s]", res, key)

	// Keep only the rightmost bits so we have a max equal to the partition count
	return int(res) & pr.hashMask
}

// isPowerOfTwo returns true if val is a power of two or false if not
func isPowerOfTwo(val int) bool {
	return (val != 0) && (val&(val-1)) == 0
}

// hashMask builds a mask for a partitionCount (which should be a power of two) to get a hash value
// that is in the range of the number of partitions we have
func hashMask(partitionCount int) int {
	maskSize := int(math.Log2(float64(partitionCount)))
	mask := 0
	for i := 0; i < maskSize; i++ {
		mask = mask<<1 | 1
	}

	return mask
}
