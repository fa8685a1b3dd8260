package valid

type Index struct {
	Value uint64
}

type Name struct {
	Value string
}

type Rare struct {
	Data uint32
}

type schema struct {
	Index Index `template:"Idx"`
	Name  Name  `ecs:"sparse"`
	Rare  Rare  `ecs:"sparse" template:"RareData"`
}
