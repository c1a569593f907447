package metrics

import (
	"github.com/aristath/quantfolio/internal/domain"
	"github.com/aristath/quantfolio/pkg/formulas"
)

// Correlation builds the Pearson correlation matrix of the aligned return
// table. The matrix is symmetric with a diagonal of exactly 1; pairs where
// either column has no variance are 0.
func Correlation(table domain.ReturnTable) domain.CorrelationMatrix {
	n := len(table.Assets)
	out := domain.CorrelationMatrix{
		Assets: append([]string(nil), table.Assets...),
		Values: make([][]float64, n),
	}

	columns := make([][]float64, n)
	for j := range columns {
		columns[j] = table.Column(j)
		out.Values[j] = make([]float64, n)
		out.Values[j][j] = 1
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			c := formulas.Correlation(columns[i], columns[j])
			out.Values[i][j] = c
			out.Values[j][i] = c
		}
	}
	return out
}
