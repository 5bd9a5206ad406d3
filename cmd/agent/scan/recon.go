package scan

import (
	"context"
	"fmt"
	"net"
	"strings"
	"syscall"
	"time"

	"prtip/internal/core/lib/network/match"
	"prtip/internal/core/lib/network/netraw"
	"prtip/internal/core/lib/network/qos"
	"prtip/internal/core/lib/network/transport"
	"prtip/internal/core/model"
	"prtip/internal/core/options"
	"prtip/internal/core/pipeline"
	"prtip/internal/core/reporter"
	"prtip/internal/core/scanner/port_service/nmap_service"
	"prtip/internal/core/scanner/recon"
	"prtip/internal/core/scanner/recon/aggregate"
	"prtip/internal/core/scanner/recon/schedule"

	"github.com/spf13/cobra"
)

func NewReconScanCmd() *cobra.Command {
	opts := options.NewReconScanOptions()
	var decoyPool string

	cmd := &cobra.Command{
		Use:   "recon",
		Short: "高级端口扫描引擎",
		Long:  `SYN/Connect/UDP/FIN/NULL/Xmas/ACK/Idle 多状态端口扫描。诱饵、分片、TTL、坏校验和等规避参数只记录到任务参数中，不会作用于发出的探测包。`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if decoyPool != "" {
				opts.DecoyPool = strings.Split(decoyPool, ",")
			}
			if err := opts.Validate(); err != nil {
				return err
			}

			// 注入全局输出参数
			opts.Output = globalOutputOptions

			task := opts.ToTask()

			fmt.Printf("[*] Starting Recon Scan on %s (Ports: %s, Type: %s)...\n", task.Target, task.PortRange, opts.ScanType)

			result, err := runReconEngine(context.Background(), task, opts)
			if err != nil {
				return err
			}

			// 输出结果 (使用 ConsoleReporter)
			console := reporter.NewConsoleReporter()
			console.PrintResults([]*model.TaskResult{result})

			// 保存 JSON 结果
			if opts.Output.OutputJson != "" {
				saveJsonResult(opts.Output.OutputJson, result)
			}

			// 保存 CSV 结果
			if opts.Output.OutputCsv != "" {
				if err := reporter.SaveCsvResult(opts.Output.OutputCsv, []*model.TaskResult{result}); err != nil {
					fmt.Printf("[-] Failed to save csv: %v\n", err)
				}
			}

			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.Target, "target", "t", opts.Target, "扫描目标")
	flags.StringVarP(&opts.Port, "port", "p", opts.Port, "端口范围")
	flags.StringVar(&opts.ScanType, "scan-type", opts.ScanType, "扫描类型 (syn/connect/udp/fin/null/xmas/ack/idle)")
	flags.StringVar(&opts.Timing, "timing", opts.Timing, "时序模板 (paranoid/sneaky/polite/normal/aggressive/insane)")
	flags.IntVar(&opts.Rate, "rate", opts.Rate, "聚合速率上限 (pps)")
	flags.BoolVar(&opts.Stateless, "stateless", opts.Stateless, "使用无状态 Cookie 匹配，不保留待处理表")
	flags.StringVar(&opts.IdleZombie, "idle-zombie", opts.IdleZombie, "Idle 扫描的僵尸主机 (scan-type=idle 时必填)")
	flags.IntVar(&opts.DecoyCount, "decoy-count", opts.DecoyCount, "诱饵数量 (0 禁用)")
	flags.StringVar(&decoyPool, "decoy-pool", "", "诱饵源地址池，逗号分隔")
	flags.IntVar(&opts.FragmentBytes, "fragment-bytes", opts.FragmentBytes, "IP 分片负载大小，按 8 字节对齐 (0 禁用)")
	flags.IntVar(&opts.SpoofTTL, "spoof-ttl", opts.SpoofTTL, "覆盖发送包的 TTL (0 表示不覆盖)")
	flags.BoolVar(&opts.BadChecksum, "bad-checksum", opts.BadChecksum, "故意破坏校验和以探测中间设备")

	cmd.MarkFlagRequired("target")
	cmd.MarkFlagRequired("port")

	return cmd
}

// reconProbeTimeout is the per-probe wait before a non-response is
// treated as the timeout edge case (spec §4.5). It is fixed: the
// --timing template is recorded in the task params and does not change
// this value.
const reconProbeTimeout = 2 * time.Second

// runReconEngine assembles the raw socket (or dialer, for Connect),
// Response Matcher, scan-type driver, ResponseRouter, scheduler and
// Aggregator described by opts, runs the scan to completion, and folds
// the aggregator's TabularSink into a model.TaskResult the existing
// reporter package already knows how to render.
func runReconEngine(ctx context.Context, task *model.Task, opts *options.ReconScanOptions) (*model.TaskResult, error) {
	startTime := time.Now()

	targets, err := resolveReconTargets(opts.Target)
	if err != nil {
		return nil, err
	}
	ports := nmap_service.ParsePortList(opts.Port)
	if len(ports) == 0 {
		return nil, fmt.Errorf("recon: no ports parsed from %q", opts.Port)
	}

	scanEpoch := uint32(startTime.Unix())
	secret, err := netraw.NewCookieSecret()
	if err != nil {
		return nil, fmt.Errorf("recon: generate cookie secret: %w", err)
	}
	defer secret.Zeroize()

	var matcher match.Matcher
	if opts.Stateless {
		matcher = match.NewStatelessMatcher(secret, scanEpoch)
	} else {
		// No retry callback: an expired entry goes straight to the no-op
		// timeout callback; the driver reports the silence itself.
		matcher = match.NewStatefulMatcher(2, nil, func(match.PendingEntry) {})
	}
	defer matcher.Close()

	probe, cleanup, err := buildReconProbe(ctx, opts, targets, matcher, secret, scanEpoch)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	sink := aggregate.NewTabularSink()
	agg := aggregate.New([]aggregate.Sink{sink}, 256)
	defer agg.Close()

	pps := qos.NewPPSController(opts.Rate)
	hosts := qos.NewHostgroupGate(64, 8)
	pool := schedule.NewPool(reconWorkerCount(opts.Rate), pps, hosts, probe)

	perm, err := schedule.NewPermutation(targets, ports, int64(scanEpoch))
	if err != nil {
		return nil, err
	}

	// nil prober: every resolved target is probed directly (spec §4.6
	// "-Pn" style bypass) — ReconScanOptions has no discovery-method
	// flag yet to select an alive.Prober (see DESIGN.md Open Questions).
	engine := schedule.NewEngine(pool, perm, agg, nil)
	if err := engine.Run(ctx, reconProbeTimeout); err != nil {
		return nil, err
	}

	return &model.TaskResult{
		TaskID:      task.ID,
		Status:      model.TaskStatusCompleted,
		Result:      sink,
		ExecutedAt:  startTime,
		CompletedAt: time.Now(),
	}, nil
}

// buildReconProbe opens whatever transport the requested scan type
// needs and returns the ProbeFunc schedule.Pool will call on every
// (target, port) pair, plus a cleanup func releasing the raw socket and
// stopping its receive loop (a no-op for Connect scans).
func buildReconProbe(ctx context.Context, opts *options.ReconScanOptions, targets []recon.Target, matcher match.Matcher, secret netraw.CookieSecret, scanEpoch uint32) (schedule.ProbeFunc, func(), error) {
	if opts.ScanType == "connect" {
		return schedule.ConnectProbeFunc(recon.NewConnectScanner()), func() {}, nil
	}

	localIP, err := recon.LocalSourceIP(targets[0].IP)
	if err != nil {
		return nil, nil, err
	}

	// Raw sockets only deliver frames matching their own protocol
	// number (Linux SOCK_RAW semantics) — one socket cannot see both a
	// UDP scan's direct replies and the ICMP unreachables that
	// disambiguate silence from filtering. This wiring picks the
	// protocol the scan type needs for its primary signal; see
	// DESIGN.md Open Questions for the dual-socket follow-up the UDP
	// driver's ICMP path wants.
	proto := syscall.IPPROTO_TCP
	if opts.ScanType == "udp" {
		proto = syscall.IPPROTO_UDP
	}
	sock, err := transport.Open(transport.Config{Protocol: proto})
	if err != nil {
		return nil, nil, fmt.Errorf("recon: open raw socket: %w", err)
	}

	router := recon.NewResponseRouter(sock, 65536, 256)
	routerCtx, cancelRouter := context.WithCancel(ctx)
	go router.Run(routerCtx, 200*time.Millisecond)

	cleanup := func() {
		cancelRouter()
		sock.Close()
	}

	switch opts.ScanType {
	case "syn":
		scanner := recon.NewSYNScanner(sock, router, matcher, secret, scanEpoch, localIP)
		return schedule.SYNProbeFunc(scanner, reconProbeTimeout), cleanup, nil
	case "udp":
		scanner := recon.NewUDPScanner(sock, router, matcher, secret, scanEpoch, localIP)
		return schedule.UDPProbeFunc(scanner, reconProbeTimeout), cleanup, nil
	case "fin", "null", "xmas", "ack":
		kind, kindErr := flagScanKind(opts.ScanType)
		if kindErr != nil {
			cleanup()
			return nil, nil, kindErr
		}
		scanner := recon.NewFlagScanner(sock, router, matcher, secret, scanEpoch, localIP)
		return schedule.FlagProbeFunc(scanner, kind, reconProbeTimeout), cleanup, nil
	case "idle":
		zombie := net.ParseIP(opts.IdleZombie)
		if zombie == nil {
			cleanup()
			return nil, nil, fmt.Errorf("recon: invalid --idle-zombie address %q", opts.IdleZombie)
		}
		zombieProbe := recon.NewZombieProbe(3, 10)
		scanner := recon.NewIdleScanner(sock, router, zombie, localIP, zombieProbe)
		return schedule.IdleProbeFunc(scanner, reconProbeTimeout), cleanup, nil
	default:
		cleanup()
		return nil, nil, fmt.Errorf("recon: unsupported scan type %q", opts.ScanType)
	}
}

func flagScanKind(scanType string) (recon.ScanKind, error) {
	switch scanType {
	case "fin":
		return recon.ScanFIN, nil
	case "null":
		return recon.ScanNULL, nil
	case "xmas":
		return recon.ScanXmas, nil
	case "ack":
		return recon.ScanACK, nil
	default:
		return 0, fmt.Errorf("recon: flagScanKind: unsupported scan type %q", scanType)
	}
}

// resolveReconTargets expands opts.Target (CIDR/range/IP/list/file) the
// same way pipeline.GenerateTargets already does for scan run, into the
// []recon.Target the Permutation needs.
func resolveReconTargets(spec string) ([]recon.Target, error) {
	var targets []recon.Target
	for ipStr := range pipeline.GenerateTargets(spec) {
		ip := net.ParseIP(ipStr)
		if ip == nil {
			continue
		}
		targets = append(targets, recon.Target{IP: ip})
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("recon: no resolvable targets in %q", spec)
	}
	return targets, nil
}

// reconWorkerCount sizes the pool's goroutine fan-out off the requested
// pps rate — the pool bounds concurrency, the PPSController bounds wire
// traffic, and a worker count well above the rate just lets probes queue
// on the rate limiter instead of on pond's internal queue.
func reconWorkerCount(rate int) int {
	workers := rate
	if workers < 16 {
		workers = 16
	}
	if workers > 4096 {
		workers = 4096
	}
	return workers
}
