package builtins

import (
	"context"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/dmnrun/feelengine/feel/value"
)

// registerList installs the 23 list built-ins (spec §4.6). The
// aggregators (count, min, max, sum, mean, all, any, product, median,
// stddev, mode) share the "single list or multiple scalar arguments"
// calling convention the spec calls out, via effectiveItems.
func registerList(r *Registry, caller Caller) {
	r.add("list contains", []string{"list", "element"}, biListContains)
	r.add("count", []string{"list"}, biCount)
	r.add("min", []string{"list"}, biMin)
	r.add("max", []string{"list"}, biMax)
	r.add("sum", []string{"list"}, biSum)
	r.add("mean", []string{"list"}, biMean)
	r.add("all", []string{"list"}, biAll)
	r.add("any", []string{"list"}, biAny)
	r.add("sublist", []string{"list", "start position", "length"}, biSublist)
	r.add("append", []string{"list", "item"}, biAppend)
	r.add("concatenate", []string{"list"}, biConcatenate)
	r.add("insert before", []string{"list", "position", "newItem"}, biInsertBefore)
	r.add("remove", []string{"list", "position"}, biRemove)
	r.add("reverse", []string{"list"}, biReverse)
	r.add("index of", []string{"list", "match"}, biIndexOf)
	r.add("union", []string{"list"}, biUnion)
	r.add("distinct values", []string{"list"}, biDistinctValues)
	r.add("flatten", []string{"list"}, biFlatten)
	r.add("product", []string{"list"}, biProduct)
	r.add("median", []string{"list"}, biMedian)
	r.add("stddev", []string{"list"}, biStddev)
	r.add("mode", []string{"list"}, biMode)
	r.add("sort", []string{"list", "precedes"}, sortFn(caller))
}

// effectiveItems implements the "single list or multiple scalar
// arguments" calling convention (spec §4.6).
func effectiveItems(args []value.Value) []value.Value {
	if len(args) == 1 {
		if l, ok := value.AsList(args[0]); ok {
			return l.Items
		}
	}
	return args
}

func numericItems(items []value.Value) ([]decimal.Decimal, bool) {
	var nums []decimal.Decimal
	for _, it := range items {
		if value.IsNull(it) {
			continue
		}
		n, ok := value.AsNumber(it)
		if !ok {
			return nil, false
		}
		nums = append(nums, n.Decimal())
	}
	return nums, true
}

func biListContains(args []value.Value) (value.Value, error) {
	list, ok := value.AsList(arg(args, 0))
	if !ok {
		return value.Nil, nil
	}
	elem := arg(args, 1)
	for _, it := range list.Items {
		if value.Equal(it, elem) {
			return value.True, nil
		}
	}
	return value.False, nil
}

func biCount(args []value.Value) (value.Value, error) {
	items := effectiveItems(args)
	return value.NumberFromInt(int64(len(items))), nil
}

func extremum(items []value.Value, wantMax bool) value.Value {
	var best value.Value
	found := false
	for _, it := range items {
		if value.IsNull(it) {
			continue
		}
		if !found {
			best, found = it, true
			continue
		}
		c, ok := value.Compare(it, best)
		if !ok {
			return value.Nil
		}
		if (wantMax && c > 0) || (!wantMax && c < 0) {
			best = it
		}
	}
	if !found {
		return value.Nil
	}
	return best
}

func biMin(args []value.Value) (value.Value, error) {
	return extremum(effectiveItems(args), false), nil
}

func biMax(args []value.Value) (value.Value, error) {
	return extremum(effectiveItems(args), true), nil
}

func sumDecimals(nums []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, n := range nums {
		total = total.Add(n)
	}
	return total
}

func biSum(args []value.Value) (value.Value, error) {
	nums, ok := numericItems(effectiveItems(args))
	if !ok || len(nums) == 0 {
		return value.Nil, nil
	}
	return value.NewNumber(sumDecimals(nums)), nil
}

func biMean(args []value.Value) (value.Value, error) {
	nums, ok := numericItems(effectiveItems(args))
	if !ok || len(nums) == 0 {
		return value.Nil, nil
	}
	return value.NewNumber(sumDecimals(nums).Div(decimal.NewFromInt(int64(len(nums))))), nil
}

func biAll(args []value.Value) (value.Value, error) {
	items := effectiveItems(args)
	result := value.Value(value.True)
	for _, it := range items {
		result = value.And(result, it)
	}
	return result, nil
}

func biAny(args []value.Value) (value.Value, error) {
	items := effectiveItems(args)
	result := value.Value(value.False)
	for _, it := range items {
		result = value.Or(result, it)
	}
	return result, nil
}

func biSublist(args []value.Value) (value.Value, error) {
	list, ok := value.AsList(arg(args, 0))
	if !ok {
		return value.Nil, nil
	}
	startN, ok := value.AsNumber(arg(args, 1))
	if !ok {
		return value.Nil, nil
	}
	start := startN.Int()
	var from int
	switch {
	case start > 0:
		from = start - 1
	case start < 0:
		from = len(list.Items) + start
	default:
		return value.Nil, nil
	}
	if from < 0 || from > len(list.Items) {
		return value.Nil, nil
	}
	to := len(list.Items)
	if lenArg := arg(args, 2); !value.IsNull(lenArg) {
		lenN, ok := value.AsNumber(lenArg)
		if !ok {
			return value.Nil, nil
		}
		to = from + lenN.Int()
		if to > len(list.Items) {
			to = len(list.Items)
		}
	}
	if to < from {
		return value.Nil, nil
	}
	out := make([]value.Value, to-from)
	copy(out, list.Items[from:to])
	return value.NewList(out), nil
}

func biAppend(args []value.Value) (value.Value, error) {
	list, ok := value.AsList(arg(args, 0))
	if !ok {
		return value.Nil, nil
	}
	out := append(append([]value.Value{}, list.Items...), args[1:]...)
	return value.NewList(out), nil
}

func biConcatenate(args []value.Value) (value.Value, error) {
	var out []value.Value
	for _, a := range args {
		l, ok := value.AsList(a)
		if !ok {
			return value.Nil, nil
		}
		out = append(out, l.Items...)
	}
	return value.NewList(out), nil
}

func biInsertBefore(args []value.Value) (value.Value, error) {
	list, ok := value.AsList(arg(args, 0))
	if !ok {
		return value.Nil, nil
	}
	posN, ok := value.AsNumber(arg(args, 1))
	if !ok {
		return value.Nil, nil
	}
	pos := posN.Int()
	if pos < 1 || pos > len(list.Items)+1 {
		return value.Nil, nil
	}
	out := make([]value.Value, 0, len(list.Items)+1)
	out = append(out, list.Items[:pos-1]...)
	out = append(out, arg(args, 2))
	out = append(out, list.Items[pos-1:]...)
	return value.NewList(out), nil
}

func biRemove(args []value.Value) (value.Value, error) {
	list, ok := value.AsList(arg(args, 0))
	if !ok {
		return value.Nil, nil
	}
	posN, ok := value.AsNumber(arg(args, 1))
	if !ok {
		return value.Nil, nil
	}
	pos := posN.Int()
	if pos < 1 || pos > len(list.Items) {
		return value.Nil, nil
	}
	out := make([]value.Value, 0, len(list.Items)-1)
	out = append(out, list.Items[:pos-1]...)
	out = append(out, list.Items[pos:]...)
	return value.NewList(out), nil
}

func biReverse(args []value.Value) (value.Value, error) {
	list, ok := value.AsList(arg(args, 0))
	if !ok {
		return value.Nil, nil
	}
	out := make([]value.Value, len(list.Items))
	for i, it := range list.Items {
		out[len(list.Items)-1-i] = it
	}
	return value.NewList(out), nil
}

func biIndexOf(args []value.Value) (value.Value, error) {
	list, ok := value.AsList(arg(args, 0))
	if !ok {
		return value.Nil, nil
	}
	match := arg(args, 1)
	var out []value.Value
	for i, it := range list.Items {
		if value.Equal(it, match) {
			out = append(out, value.NumberFromInt(int64(i+1)))
		}
	}
	return value.NewList(out), nil
}

func biUnion(args []value.Value) (value.Value, error) {
	var all []value.Value
	for _, a := range args {
		l, ok := value.AsList(a)
		if !ok {
			return value.Nil, nil
		}
		all = append(all, l.Items...)
	}
	return value.NewList(distinct(all)), nil
}

func distinct(items []value.Value) []value.Value {
	var out []value.Value
	for _, it := range items {
		seen := false
		for _, o := range out {
			if value.Equal(it, o) {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, it)
		}
	}
	return out
}

func biDistinctValues(args []value.Value) (value.Value, error) {
	list, ok := value.AsList(arg(args, 0))
	if !ok {
		return value.Nil, nil
	}
	return value.NewList(distinct(list.Items)), nil
}

func flattenItems(items []value.Value) []value.Value {
	var out []value.Value
	for _, it := range items {
		if l, ok := value.AsList(it); ok {
			out = append(out, flattenItems(l.Items)...)
			continue
		}
		out = append(out, it)
	}
	return out
}

func biFlatten(args []value.Value) (value.Value, error) {
	list, ok := value.AsList(arg(args, 0))
	if !ok {
		return value.Nil, nil
	}
	return value.NewList(flattenItems(list.Items)), nil
}

func biProduct(args []value.Value) (value.Value, error) {
	nums, ok := numericItems(effectiveItems(args))
	if !ok || len(nums) == 0 {
		return value.Nil, nil
	}
	total := decimal.NewFromInt(1)
	for _, n := range nums {
		total = total.Mul(n)
	}
	return value.NewNumber(total), nil
}

func biMedian(args []value.Value) (value.Value, error) {
	nums, ok := numericItems(effectiveItems(args))
	if !ok || len(nums) == 0 {
		return value.Nil, nil
	}
	sort.Slice(nums, func(i, j int) bool { return nums[i].LessThan(nums[j]) })
	mid := len(nums) / 2
	if len(nums)%2 == 1 {
		return value.NewNumber(nums[mid]), nil
	}
	avg := nums[mid-1].Add(nums[mid]).Div(decimal.NewFromInt(2))
	return value.NewNumber(avg), nil
}

func biStddev(args []value.Value) (value.Value, error) {
	nums, ok := numericItems(effectiveItems(args))
	if !ok || len(nums) < 2 {
		return value.Nil, nil
	}
	mean := sumDecimals(nums).Div(decimal.NewFromInt(int64(len(nums))))
	sumSq := decimal.Zero
	for _, n := range nums {
		diff := n.Sub(mean)
		sumSq = sumSq.Add(diff.Mul(diff))
	}
	variance := sumSq.Div(decimal.NewFromInt(int64(len(nums) - 1)))
	f, _ := variance.Float64()
	return value.NumberFromFloat(math.Sqrt(f)), nil
}

func biMode(args []value.Value) (value.Value, error) {
	nums, ok := numericItems(effectiveItems(args))
	if !ok || len(nums) == 0 {
		return value.NewList(nil), nil
	}
	counts := make(map[string]int)
	order := make(map[string]decimal.Decimal)
	for _, n := range nums {
		key := n.String()
		counts[key]++
		order[key] = n
	}
	best := 0
	for _, c := range counts {
		if c > best {
			best = c
		}
	}
	var modes []decimal.Decimal
	for key, c := range counts {
		if c == best {
			modes = append(modes, order[key])
		}
	}
	sort.Slice(modes, func(i, j int) bool { return modes[i].LessThan(modes[j]) })
	out := make([]value.Value, len(modes))
	for i, m := range modes {
		out[i] = value.NewNumber(m)
	}
	return value.NewList(out), nil
}

func sortFn(caller Caller) func([]value.Value) (value.Value, error) {
	return func(args []value.Value) (value.Value, error) {
		list, ok := value.AsList(arg(args, 0))
		if !ok {
			return value.Nil, nil
		}
		out := append([]value.Value{}, list.Items...)
		precedesArg := arg(args, 1)
		fn, hasFn := value.AsFunction(precedesArg)
		if hasFn && caller == nil {
			return value.Nil, nil
		}
		var sortErr error
		sort.SliceStable(out, func(i, j int) bool {
			if sortErr != nil {
				return false
			}
			if hasFn && caller != nil {
				result, err := caller.Call(context.Background(), fn, []value.Value{out[i], out[j]})
				if err != nil {
					sortErr = err
					return false
				}
				b, _ := value.AsBoolean(result)
				return b
			}
			c, ok := value.Compare(out[i], out[j])
			if !ok {
				return false
			}
			return c < 0
		})
		if sortErr != nil {
			return nil, sortErr
		}
		return value.NewList(out), nil
	}
}
