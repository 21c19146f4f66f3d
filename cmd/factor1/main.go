package main

import (
	"fmt"
	"os"

	"nlsolve"
)

func main() {
	A, err := nlsolve.FromRows([][]float64{
		{10, 0, 0, 4, 0},
		{0, 20, 5, 0, 0},
		{0, 2, 30, 0, 0},
		{4, 0, 0, 40, 6},
		{0, 0, 0, 6, 50},
	})
	if err != nil {
		panic(err)
	}

	fmt.Println("Matrix before factorization:")
	A.Print(os.Stdout, true)

	lu, err := A.Factor()
	if err != nil {
		panic(err)
	}

	fmt.Println("Row order after pivoting:")
	for i, p := range lu.Perm {
		fmt.Printf("row %d <- %d\n", i+1, p+1)
	}
	fmt.Printf("Determinant: %.4f\n", lu.Determinant())

	b := []float64{1, 2, 3, 4, 5}
	x, err := lu.Solve(b)
	if err != nil {
		panic(err)
	}
	fmt.Println("Solution x:")
	for i := range x {
		fmt.Printf("x[%d] = %.6f\n", i+1, x[i])
	}

	// Second and first rows are proportional.
	S, err := nlsolve.FromRows([][]float64{
		{1, 2, 3},
		{2, 4, 6},
		{1, 0, 1},
	})
	if err != nil {
		panic(err)
	}
	if _, err := S.Factor(); err != nil {
		fmt.Printf("Singular matrix rejected: %v\n", err)
	}
}
