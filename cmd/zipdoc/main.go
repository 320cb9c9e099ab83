// Command zipdoc renders and inspects zip-packaged office documents.
package main

func main() {
	execute()
}
