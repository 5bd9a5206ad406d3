package options

import (
	"fmt"
	"time"

	"prtip/internal/core/model"
)

// ReconScanOptions corresponds to the advanced recon engine (spec
// §1, §6): SYN/Connect/UDP/FIN/NULL/Xmas/ACK/Idle scans, on top of the
// same Target/Port/Rate shape PortScanOptions already uses.
type ReconScanOptions struct {
	Target string
	Port   string

	// ScanType selects the scan state machine: syn, connect, udp, fin,
	// null, xmas, ack, idle.
	ScanType string

	// Timing names a template (paranoid/sneaky/polite/normal/
	// aggressive/insane, spec §6). It is recorded in the task params
	// only; runReconEngine uses Rate as given and a fixed probe timeout
	// whatever the template.
	Timing string
	Rate   int // aggregate pps cap, Tier 1 (spec §4.3)

	// Stateless, when true, uses the cookie-recomputation Response
	// Matcher instead of the PendingEntry table (spec §4.4) — no
	// per-scan memory footprint. Neither mode retries an unanswered
	// probe: runReconEngine gives the stateful matcher no retry callback.
	Stateless bool

	// IdleZombie is required when ScanType == "idle": the quiet host
	// whose IP-ID sequence is the side channel (spec §4.5).
	IdleZombie string

	// Stealth transformation toggles (spec §4.8); all default off. They
	// are recorded in the task params only; runReconEngine does not apply
	// them to outgoing probes.
	DecoyCount    int
	DecoyPool     []string
	FragmentBytes int // 0 disables fragmentation
	SpoofTTL      int // 0 means "do not override"
	BadChecksum   bool

	Output OutputOptions
}

func NewReconScanOptions() *ReconScanOptions {
	return &ReconScanOptions{
		ScanType: "syn",
		Timing:   "normal",
		Rate:     1000,
	}
}

func (o *ReconScanOptions) Validate() error {
	if o.Target == "" {
		return fmt.Errorf("target is required")
	}
	if o.Port == "" {
		return fmt.Errorf("port range is required")
	}
	switch o.ScanType {
	case "syn", "connect", "udp", "fin", "null", "xmas", "ack", "idle":
	default:
		return fmt.Errorf("unsupported scan type %q", o.ScanType)
	}
	if o.ScanType == "idle" && o.IdleZombie == "" {
		return fmt.Errorf("idle scan requires --idle-zombie")
	}
	return nil
}

func (o *ReconScanOptions) ToTask() *model.Task {
	task := model.NewTask(model.TaskTypeReconScan, o.Target)
	task.PortRange = o.Port
	task.Timeout = 1 * time.Hour

	task.Params["scan_type"] = o.ScanType
	task.Params["timing"] = o.Timing
	task.Params["rate"] = o.Rate
	task.Params["stateless"] = o.Stateless
	if o.IdleZombie != "" {
		task.Params["idle_zombie"] = o.IdleZombie
	}
	if o.DecoyCount > 0 {
		task.Params["decoy_count"] = o.DecoyCount
		task.Params["decoy_pool"] = o.DecoyPool
	}
	if o.FragmentBytes > 0 {
		task.Params["fragment_bytes"] = o.FragmentBytes
	}
	if o.SpoofTTL > 0 {
		task.Params["spoof_ttl"] = o.SpoofTTL
	}
	task.Params["bad_checksum"] = o.BadChecksum

	o.Output.ApplyToParams(task.Params)

	return task
}
