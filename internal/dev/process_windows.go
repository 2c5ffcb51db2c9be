//go:build windows

package dev

import (
	"os/exec"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// osState holds the job object that owns the child and its descendants.
// Closing the job terminates all of them.
type osState struct {
	job windows.Handle
}

func prepare(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: windows.CREATE_NEW_PROCESS_GROUP,
	}
}

// attach puts the child into a kill-on-close job. Without a job only the
// child itself can be stopped.
func attach(p *processHandle) {
	job, err := windows.CreateJobObject(nil, nil)
	if err != nil {
		return
	}

	info := windows.JOBOBJECT_EXTENDED_LIMIT_INFORMATION{}
	info.BasicLimitInformation.LimitFlags = windows.JOB_OBJECT_LIMIT_KILL_ON_JOB_CLOSE
	if _, err := windows.SetInformationJobObject(
		job,
		windows.JobObjectExtendedLimitInformation,
		uintptr(unsafe.Pointer(&info)),
		uint32(unsafe.Sizeof(info)),
	); err != nil {
		windows.CloseHandle(job)
		return
	}

	proc, err := windows.OpenProcess(windows.PROCESS_SET_QUOTA|windows.PROCESS_TERMINATE, false, uint32(p.cmd.Process.Pid))
	if err != nil {
		windows.CloseHandle(job)
		return
	}
	defer windows.CloseHandle(proc)

	if err := windows.AssignProcessToJobObject(job, proc); err != nil {
		windows.CloseHandle(job)
		return
	}
	p.os.job = job
}

func release(p *processHandle) {
	if p.os.job != 0 {
		windows.CloseHandle(p.os.job)
		p.os.job = 0
	}
}

// Windows has no graceful equivalent of SIGTERM for console children.
func interrupt(p *processHandle) {
	if p.os.job != 0 {
		release(p)
		return
	}
	_ = p.cmd.Process.Kill()
}

func kill(p *processHandle) { _ = p.cmd.Process.Kill() }
