package system

import (
	"runtime"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// InitResourceLimits raises the open file limit so parallel ffmpeg
// processes and their pipes do not run out of descriptors.
func InitResourceLimits(log zerolog.Logger) {
	var rLimit syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		log.Warn().Err(err).Msg("failed to read open file limit")
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		log.Warn().Err(err).Msg("failed to raise open file limit")
		return
	}
	log.Debug().Uint64("limit", uint64(rLimit.Cur)).Msg("open file limit raised")
}

// WorkerCount sizes a pool of media workers. A positive requested value is
// used as is. Otherwise the physical core count is used, capped so that
// perWorkerBytes for every worker fits in available memory.
func WorkerCount(requested int, perWorkerBytes uint64) int {
	if requested > 0 {
		return requested
	}

	workers, err := cpu.Counts(false)
	if err != nil || workers <= 0 {
		workers = runtime.NumCPU()
	}

	if perWorkerBytes > 0 {
		if vm, err := mem.VirtualMemory(); err == nil && vm.Available > 0 {
			if byMem := int(vm.Available / perWorkerBytes); byMem < workers {
				workers = byMem
			}
		}
	}

	if workers < 1 {
		workers = 1
	}
	return workers
}
