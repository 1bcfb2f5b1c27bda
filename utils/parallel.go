// Package utils contains small helpers shared by the camera packages: worker fan-out and angle conversion.
package utils

import (
	"context"
	"runtime"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"
)

// ParallelFactor controls the max level of parallelization. This might be useful
// to set in tests where too much parallelism actually slows tests down in
// aggregate.
var ParallelFactor = runtime.GOMAXPROCS(0)

func init() {
	if ParallelFactor <= 0 {
		ParallelFactor = 1
	}
	quarterProcs := float64(ParallelFactor) * .25
	if quarterProcs > 8 {
		ParallelFactor = int(quarterProcs)
	}
}

type (
	// BeforeParallelGroupWorkFunc executes before any work starts with the calculated group size.
	BeforeParallelGroupWorkFunc func(groupSize int)
	// MemberWorkFunc runs for each work item (member) of a group.
	MemberWorkFunc func(memberNum, workNum int)
	// GroupWorkDoneFunc runs when a single group's work is done; helpful for merge stages.
	GroupWorkDoneFunc func()
	// GroupWorkFunc runs to determine what work members should do, if any.
	GroupWorkFunc func(groupNum, groupSize, from, to int) (MemberWorkFunc, GroupWorkDoneFunc)
)

// GroupWorkParallel parallelizes the given size of work over multiple workers. Work items
// [0, totalSize) are split into contiguous ranges, one per group, with the remainder going
// to the last group. Groups that have not started when ctx is done are skipped and the
// context error is returned. A panicking group is reported as an error.
func GroupWorkParallel(ctx context.Context, totalSize int, before BeforeParallelGroupWorkFunc, groupWork GroupWorkFunc) error {
	numGroups := ParallelFactor
	if totalSize < numGroups {
		numGroups = totalSize
	}
	if numGroups < 1 {
		numGroups = 1
	}
	groupSize := totalSize / numGroups
	extra := totalSize % numGroups

	before(numGroups)

	var bigError error
	var skipped bool
	var bigErrorMutex sync.Mutex
	storeError := func(err error) {
		bigErrorMutex.Lock()
		defer bigErrorMutex.Unlock()
		bigError = multierr.Combine(bigError, err)
	}

	var wait sync.WaitGroup
	wait.Add(numGroups)
	for groupNum := 0; groupNum < numGroups; groupNum++ {
		// a panicking group is marked done by the callback, not here
		goutils.PanicCapturingGoWithCallback(func() {
			if ctx.Err() != nil {
				bigErrorMutex.Lock()
				skipped = true
				bigErrorMutex.Unlock()
			} else {
				runGroup(groupNum, numGroups, groupSize, extra, groupWork)
			}
			wait.Done()
		}, func(err interface{}) {
			storeError(errors.Errorf("got panic running group %d in parallel: %v", groupNum, err))
			wait.Done()
		})
	}
	wait.Wait()
	if err := ctx.Err(); err != nil && (skipped || bigError != nil) {
		return multierr.Combine(err, bigError)
	}
	return bigError
}

func runGroup(groupNum, numGroups, groupSize, extra int, groupWork GroupWorkFunc) {
	thisGroupSize := groupSize
	thisExtra := 0
	if groupNum == (numGroups - 1) {
		thisExtra = extra
		thisGroupSize += thisExtra
	}
	from := groupSize * groupNum
	to := (groupSize * (groupNum + 1)) + thisExtra
	memberWork, groupWorkDone := groupWork(groupNum, thisGroupSize, from, to)
	if memberWork != nil {
		memberNum := 0
		for workNum := from; workNum < to; workNum++ {
			memberWork(memberNum, workNum)
			memberNum++
		}
	}
	if groupWorkDone != nil {
		groupWorkDone()
	}
}
