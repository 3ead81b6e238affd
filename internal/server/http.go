package server

import (
	"context"
	"strconv"

	"settlement-service/internal/conf"
	"settlement-service/internal/service"

	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewHTTPServer 创建 HTTP 服务器
func NewHTTPServer(
	c *conf.Bootstrap,
	settlementService *service.SettlementService,
	ledgerService *service.LedgerService,
	secretService *service.SecretService,
) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
		),
	}
	if c.Server != nil && c.Server.HTTP != nil {
		if c.Server.HTTP.Network != "" {
			opts = append(opts, http.Network(c.Server.HTTP.Network))
		}
		if c.Server.HTTP.Addr != "" {
			opts = append(opts, http.Address(c.Server.HTTP.Addr))
		}
		if c.Server.HTTP.Timeout != "" {
			opts = append(opts, http.Timeout(conf.ParseDuration(c.Server.HTTP.Timeout)))
		}
	}
	srv := http.NewServer(opts...)
	srv.Handle("/metrics", promhttp.Handler())
	registerRoutes(srv, settlementService, ledgerService, secretService)
	return srv
}

func registerRoutes(
	srv *http.Server,
	settlementService *service.SettlementService,
	ledgerService *service.LedgerService,
	secretService *service.SecretService,
) {
	r := srv.Route("/v1")

	r.POST("/settlements/task-approval", func(ctx http.Context) error {
		var req service.SettleTaskApprovalRequest
		if err := ctx.Bind(&req); err != nil {
			return err
		}
		h := ctx.Middleware(func(ctx context.Context, in interface{}) (interface{}, error) {
			return settlementService.SettleTaskApproval(ctx, in.(*service.SettleTaskApprovalRequest))
		})
		out, err := h(ctx, &req)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	})

	r.POST("/members/audit", func(ctx http.Context) error {
		var req service.AuditMembersRequest
		if err := ctx.Bind(&req); err != nil {
			return err
		}
		h := ctx.Middleware(func(ctx context.Context, in interface{}) (interface{}, error) {
			return settlementService.AuditMembers(ctx, in.(*service.AuditMembersRequest))
		})
		out, err := h(ctx, &req)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	})

	r.POST("/members/{id}/assign", func(ctx http.Context) error {
		memberID, err := strconv.ParseUint(ctx.Vars().Get("id"), 10, 64)
		if err != nil {
			return err
		}
		h := ctx.Middleware(func(ctx context.Context, _ interface{}) (interface{}, error) {
			return settlementService.AssignMember(ctx, memberID)
		})
		out, err := h(ctx, nil)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	})

	r.POST("/withdrawals", func(ctx http.Context) error {
		var req service.RequestWithdrawalRequest
		if err := ctx.Bind(&req); err != nil {
			return err
		}
		h := ctx.Middleware(func(ctx context.Context, in interface{}) (interface{}, error) {
			return settlementService.RequestWithdrawal(ctx, in.(*service.RequestWithdrawalRequest))
		})
		out, err := h(ctx, &req)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	})

	r.POST("/withdrawals/{id}/resolve", func(ctx http.Context) error {
		withdrawalID, err := strconv.ParseUint(ctx.Vars().Get("id"), 10, 64)
		if err != nil {
			return err
		}
		var req service.ResolveWithdrawalRequest
		if err := ctx.Bind(&req); err != nil {
			return err
		}
		h := ctx.Middleware(func(ctx context.Context, in interface{}) (interface{}, error) {
			return settlementService.ResolveWithdrawal(ctx, withdrawalID, in.(*service.ResolveWithdrawalRequest))
		})
		out, err := h(ctx, &req)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	})

	r.GET("/bills", func(ctx http.Context) error {
		req := bindListBillsQuery(ctx)
		h := ctx.Middleware(func(ctx context.Context, in interface{}) (interface{}, error) {
			return ledgerService.ListBills(ctx, in.(*service.ListBillsRequest))
		})
		out, err := h(ctx, req)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	})

	r.GET("/bills/{bill_no}", func(ctx http.Context) error {
		billNo := ctx.Vars().Get("bill_no")
		h := ctx.Middleware(func(ctx context.Context, _ interface{}) (interface{}, error) {
			return ledgerService.GetBill(ctx, billNo)
		})
		out, err := h(ctx, nil)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	})

	r.GET("/withdrawals", func(ctx http.Context) error {
		query := ctx.Query()
		req := &service.ListWithdrawalsRequest{
			MemberID: parseUint(query.Get("member_id")),
			Status:   query.Get("status"),
			Page:     parseInt(query.Get("page")),
			PageSize: parseInt(query.Get("page_size")),
		}
		h := ctx.Middleware(func(ctx context.Context, in interface{}) (interface{}, error) {
			return ledgerService.ListWithdrawals(ctx, in.(*service.ListWithdrawalsRequest))
		})
		out, err := h(ctx, req)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	})

	r.POST("/secrets/encrypt", func(ctx http.Context) error {
		var req service.EncryptSecretRequest
		if err := ctx.Bind(&req); err != nil {
			return err
		}
		h := ctx.Middleware(func(ctx context.Context, in interface{}) (interface{}, error) {
			return secretService.Encrypt(ctx, in.(*service.EncryptSecretRequest))
		})
		out, err := h(ctx, &req)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	})

	r.POST("/secrets/decrypt", func(ctx http.Context) error {
		var req service.DecryptSecretRequest
		if err := ctx.Bind(&req); err != nil {
			return err
		}
		h := ctx.Middleware(func(ctx context.Context, in interface{}) (interface{}, error) {
			return secretService.Decrypt(ctx, in.(*service.DecryptSecretRequest))
		})
		out, err := h(ctx, &req)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	})

	r.GET("/members/{id}/balance", func(ctx http.Context) error {
		memberID, err := strconv.ParseUint(ctx.Vars().Get("id"), 10, 64)
		if err != nil {
			return err
		}
		h := ctx.Middleware(func(ctx context.Context, _ interface{}) (interface{}, error) {
			return ledgerService.MemberBalance(ctx, memberID)
		})
		out, err := h(ctx, nil)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	})
}

func bindListBillsQuery(ctx http.Context) *service.ListBillsRequest {
	query := ctx.Query()
	return &service.ListBillsRequest{
		MemberID:         parseUint(query.Get("member_id")),
		BillType:         query.Get("bill_type"),
		SettlementStatus: query.Get("settlement_status"),
		StartTime:        query.Get("start_time"),
		EndTime:          query.Get("end_time"),
		Page:             parseInt(query.Get("page")),
		PageSize:         parseInt(query.Get("page_size")),
	}
}

func parseUint(s string) uint64 {
	v, _ := strconv.ParseUint(s, 10, 64)
	return v
}

func parseInt(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}
