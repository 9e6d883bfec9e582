// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package github

import (
	"context"
	"fmt"

	"github.com/shurcooL/graphql"
	"go.uber.org/zap"

	velocityerrors "github.com/sirseerhq/sirseer-velocity/internal/errors"
)

// cursorVariable is the variable every paginated query uses for its "after" argument.
const cursorVariable = "cursor"

// FetchPaginated runs a paginated query until the connection is exhausted or
// itemCap items are collected (itemCap <= 0 means no cap). Q is the query
// struct executed per page and extract pulls the page out of it.
//
// On any failure pagination stops and the nodes collected so far are returned
// together with an error wrapping ErrPartialResult.
func FetchPaginated[Q any, T any](
	ctx context.Context,
	exec Executor,
	variables map[string]interface{},
	extract func(*Q) (Page[T], error),
	itemCap int,
	log *zap.Logger,
) ([]T, error) {
	if log == nil {
		log = zap.NewNop()
	}

	vars := make(map[string]interface{}, len(variables)+1)
	for k, v := range variables {
		vars[k] = v
	}
	if _, ok := vars[cursorVariable]; !ok {
		vars[cursorVariable] = (*graphql.String)(nil)
	}

	var nodes []T
	for pageNum := 1; ; pageNum++ {
		var query Q
		if err := exec.Execute(ctx, &query, vars); err != nil {
			return nodes, partial(log, pageNum, len(nodes), err)
		}

		page, err := extract(&query)
		if err != nil {
			return nodes, partial(log, pageNum, len(nodes), err)
		}

		nodes = append(nodes, page.Nodes...)
		log.Debug("fetched page",
			zap.Int("page", pageNum),
			zap.Int("page_items", len(page.Nodes)),
			zap.Int("total_items", len(nodes)))

		if itemCap > 0 && len(nodes) >= itemCap {
			log.Info("item cap reached", zap.Int("item_cap", itemCap))
			return nodes[:itemCap], nil
		}
		if !page.HasNextPage {
			return nodes, nil
		}
		if page.EndCursor == "" {
			err := fmt.Errorf("%w: next page reported without end cursor", velocityerrors.ErrMalformedResponse)
			return nodes, partial(log, pageNum, len(nodes), err)
		}

		cursor := graphql.String(page.EndCursor)
		vars[cursorVariable] = &cursor
	}
}

func partial(log *zap.Logger, pageNum, collected int, err error) error {
	log.Error("pagination stopped",
		zap.Int("page", pageNum),
		zap.Int("collected", collected),
		zap.Error(err))
	return fmt.Errorf("%w: page %d: %w", velocityerrors.ErrPartialResult, pageNum, err)
}
