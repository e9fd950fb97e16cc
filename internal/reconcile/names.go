package reconcile

import "strings"

// FqName returns the fully-qualified object reference "/partition/name".
// Names that already carry a partition are passed through.
// FqName 返回完全限定的对象引用 "/partition/name"。
// 已带分区的名称原样返回。
func FqName(partition, name string) string {
	if name == "" {
		return name
	}
	if strings.HasPrefix(name, "/") {
		return name
	}
	return "/" + partition + "/" + name
}

// TransformName folds a partitioned object name into the URI segment form
// the management API expects: "~partition~name". Names that are already
// fully qualified have their slashes rewritten.
// TransformName 将分区对象名折叠为管理 API 期望的 URI 段形式
// "~partition~name"。已完全限定的名称重写其斜杠。
func TransformName(partition, name string) string {
	if strings.HasPrefix(name, "/") {
		return strings.ReplaceAll(name, "/", "~")
	}
	if partition == "" {
		return name
	}
	return "~" + partition + "~" + name
}
