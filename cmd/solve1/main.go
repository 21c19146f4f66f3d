package main

import (
	"fmt"
	"os"

	"nlsolve"
)

func main() {
	A, err := nlsolve.Create(5)
	if err != nil {
		panic(err)
	}

	A.Clear()
	*A.GetElement(0, 0) += 4
	*A.GetElement(0, 1) += -2
	*A.GetElement(0, 2) += 2
	*A.GetElement(0, 3) += 1
	*A.GetElement(0, 4) += 5

	*A.GetElement(1, 0) += 2
	*A.GetElement(1, 1) += 3
	*A.GetElement(1, 2) += -1
	*A.GetElement(1, 3) += 2
	*A.GetElement(1, 4) += 3

	*A.GetElement(2, 1) += 1
	*A.GetElement(2, 2) += 5
	*A.GetElement(2, 3) += 7
	*A.GetElement(2, 4) += 2

	*A.GetElement(3, 0) += 1
	*A.GetElement(3, 1) += 2
	*A.GetElement(3, 3) += 4
	*A.GetElement(3, 4) += 1

	*A.GetElement(4, 0) += 3
	*A.GetElement(4, 1) += 1
	*A.GetElement(4, 2) += 4
	*A.GetElement(4, 3) += 2
	*A.GetElement(4, 4) += 2

	A.Print(os.Stdout, true)

	b := []float64{5, 0, 0, 0, 0}

	fmt.Println("RHS b:")
	for i := range b {
		fmt.Printf("b[%d] = %.4f\n", i+1, b[i])
	}

	x, err := nlsolve.SolveLinear(A, b)
	if err != nil {
		panic(err)
	}

	fmt.Println("Solution x:")
	for i := range x {
		fmt.Printf("x[%d] = %.4f\n", i+1, x[i])
	}

	ax, err := A.MultiplyVector(x)
	if err != nil {
		panic(err)
	}
	fmt.Println("Check A*x:")
	for i := range ax {
		fmt.Printf("(A*x)[%d] = %.4f\n", i+1, ax[i])
	}
}
