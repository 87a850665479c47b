package http

import (
	"context"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscore/pkg/domain/model"
	"github.com/secmon-lab/riskscore/pkg/domain/model/api"
	"github.com/secmon-lab/riskscore/pkg/domain/types"
)

type branchCtxKey struct{}

func contextWithBranch(ctx context.Context, branchID types.BranchID) context.Context {
	return context.WithValue(ctx, branchCtxKey{}, branchID)
}

func branchFromContext(ctx context.Context) types.BranchID {
	if branchID, ok := ctx.Value(branchCtxKey{}).(types.BranchID); ok {
		return branchID
	}
	return ""
}

// requireBranch rejects officer requests without a branch header
func requireBranch(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		branchID := types.BranchID(r.Header.Get(api.BranchHeader))
		if branchID == "" {
			handleError(w, r, goerr.Wrap(model.ErrValidation, "branch header is required",
				goerr.V("header", api.BranchHeader)))
			return
		}
		next.ServeHTTP(w, r.WithContext(contextWithBranch(r.Context(), branchID)))
	})
}

// scopeFunc decides which branch a request may see. Empty means every branch.
type scopeFunc func(r *http.Request) types.BranchID

func adminScope(_ *http.Request) types.BranchID {
	return ""
}

func officerScope(r *http.Request) types.BranchID {
	return branchFromContext(r.Context())
}
