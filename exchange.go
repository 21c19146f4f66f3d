package nlsolve

func (lu *LU) rowExchange(row1, row2 int) {
	if row1 == row2 {
		return
	}

	n := lu.Size
	r1 := lu.Elements[row1*n : (row1+1)*n]
	r2 := lu.Elements[row2*n : (row2+1)*n]
	for j := range r1 {
		r1[j], r2[j] = r2[j], r1[j]
	}

	lu.Perm[row1], lu.Perm[row2] = lu.Perm[row2], lu.Perm[row1]
	lu.NumberOfInterchangesIsOdd = !lu.NumberOfInterchangesIsOdd
}
