package output

import (
	"sort"
	"strconv"

	"github.com/Sumatoshi-tech/benchratio/pkg/compare"
)

// member is one key of an object. value is *object, report.Measurement or float64.
type member struct {
	key   string
	value any
}

// object is an ordered mapping shared by the JSON and YAML encoders.
type object struct {
	members []member
}

func (o *object) add(key string, value any) {
	o.members = append(o.members, member{key: key, value: value})
}

func (o *object) sortKeys() {
	sort.SliceStable(o.members, func(i, j int) bool {
		return o.members[i].key < o.members[j].key
	})
}

// buildTree lays the result out as action -> file size -> block size ->
// entry with every level sorted by its string key, so numeric keys sort
// lexicographically ("128" before "64").
func buildTree(res *compare.Result) *object {
	root := &object{}

	for _, action := range res.Actions() {
		byFile := &object{}

		for _, fs := range res.FileSizes(action) {
			byBlock := &object{}

			for _, bs := range res.BlockSizes(action, fs) {
				entry, ok := res.Entry(action, fs, bs)
				if !ok {
					continue
				}

				byBlock.add(strconv.FormatInt(int64(bs), 10), entryObject(entry))
			}

			byBlock.sortKeys()
			byFile.add(strconv.FormatInt(int64(fs), 10), byBlock)
		}

		byFile.sortKeys()
		root.add(string(action), byFile)
	}

	root.sortKeys()

	return root
}

func entryObject(entry compare.Entry) *object {
	obj := &object{}

	for _, r := range entry.Ratios {
		obj.add(r.Name, r.Value)
	}

	for _, v := range entry.Values {
		obj.add(string(v.Category), v.Measurement)
	}

	obj.sortKeys()

	return obj
}
