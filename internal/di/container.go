package di

import (
	"go.uber.org/dig"
)

// Container 进程级资源容器，持有配置、存储连接与问答管道的单例。
// Beego控制器无法走构造注入，统一通过Invoke按类型取用。
var Container *dig.Container

// InitContainer 创建空容器，随后由RegisterProviders填充
func InitContainer() *dig.Container {
	Container = dig.New()
	return Container
}

// Invoke 从容器解析依赖并执行function
func Invoke(function interface{}, opts ...dig.InvokeOption) error {
	return Container.Invoke(function, opts...)
}

// Provide 向容器注册构造器
func Provide(constructor interface{}, opts ...dig.ProvideOption) error {
	return Container.Provide(constructor, opts...)
}
